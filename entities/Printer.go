// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package entities

import (
	"fmt"
	"io"

	"github.com/extcap-go/extcap/view"
)

// Descriptor records are line oriented: a fixed prefix followed by
// {key=value} fields in a fixed order. Optional fields are omitted
// entirely when unset, never emitted empty.

// PrintOptValue
// emits one optional {name=value} field, nothing when value is unset
func PrintOptValue(w io.Writer, name, value string) {
	if value != view.EmptyString {
		_, _ = fmt.Fprintf(w, "{%s=%s}", name, value)
	}
}

// PrintOptFlag
// emits {name=true} for a set boolean field, nothing otherwise
func PrintOptFlag(w io.Writer, name string, value bool) {
	if value {
		_, _ = fmt.Fprintf(w, "{%s=true}", name)
	}
}
