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

package extcap

import (
	"github.com/extcap-go/extcap/entities"
	"github.com/extcap-go/extcap/services/control_pipe"
	"github.com/extcap-go/extcap/services/pcap_sink"
)

// Listener the capture routine supplied by the provider. pipes is nil
// when the host did not supply both control pipes. The returned error
// becomes the terminal result of the capture step.
type Listener interface {
	Capture(ex *Extcap, ifc *entities.Interface, sink *pcap_sink.Sink, pipes *control_pipe.CtrlPipes) error
}

// LogInitializer optional listener capability replacing the built-in
// log initialization
type LogInitializer interface {
	InitLog(ex *Extcap, debug bool, debugFile string)
}

// InterfaceUpdater optional listener capability invoked after flag
// parsing, before any descriptor output, for interface lists that
// depend on the passed options
type InterfaceUpdater interface {
	UpdateInterfaces(ex *Extcap)
}

// OptionReloader optional listener capability producing a replacement
// value list for a reloadable argument. A nil result means no change.
type OptionReloader interface {
	ReloadOption(ex *Extcap, ifc *entities.Interface, arg *entities.Arg) []entities.ArgVal
}

// HeaderProvider optional listener capability overriding the default
// pcap global header (default snaplen, the interface DLT)
type HeaderProvider interface {
	CaptureHeader(ex *Extcap, ifc *entities.Interface) pcap_sink.Header
}
