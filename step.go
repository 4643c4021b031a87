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

import "fmt"

// StepKind the protocol steps a provider can be invoked for
type StepKind int

const (
	// StepNone not determined
	StepNone StepKind = iota
	// StepQueryIfaces query for available interfaces
	StepQueryIfaces
	// StepQueryDlts ask for the DLTs of one interface
	StepQueryDlts
	// StepConfigIface the extcap configuration interface
	StepConfigIface
	// StepCapture the capture process
	StepCapture
)

// Step the derived protocol step, fixed once per run
type Step struct {
	Kind StepKind
	// Reload set on StepConfigIface when a value reload was requested
	Reload bool
	// CtrlPipe set on StepCapture when both control pipes were supplied
	CtrlPipe bool
}

// String
// step description for logs
func (s Step) String() string {
	switch s.Kind {
	case StepQueryIfaces:
		return "query-interfaces"
	case StepQueryDlts:
		return "query-dlts"
	case StepConfigIface:
		return fmt.Sprintf("config-interface(reload=%t)", s.Reload)
	case StepCapture:
		return fmt.Sprintf("capture(ctrl-pipe=%t)", s.CtrlPipe)
	}
	return "none"
}
