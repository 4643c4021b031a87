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

// InterfaceConfig optional interface fields. A zero Dlt means
// unset and falls back to DLT_USER0.
type InterfaceConfig struct {
	Description    string
	Dlt            uint32
	DltName        string
	DltDescription string
}

// Interface one capturable extcap interface and its ordered arguments
type Interface struct {
	name     string
	descr    string
	dlt      uint32
	dltName  string
	dltDescr string
	args     []*Arg
	debug    bool
}

// NewInterface
// declares a capture interface with the given unique name
func NewInterface(name string, cfg InterfaceConfig) *Interface {
	dlt := cfg.Dlt
	if dlt == 0 {
		dlt = view.DefaultDlt
	}
	return &Interface{
		name:     name,
		descr:    cfg.Description,
		dlt:      dlt,
		dltName:  cfg.DltName,
		dltDescr: cfg.DltDescription,
	}
}

// Name interface name, the registry key
func (ifc *Interface) Name() string {
	return ifc.name
}

// Dlt declared link type number
func (ifc *Interface) Dlt() uint32 {
	return ifc.dlt
}

// Args ordered argument list
func (ifc *Interface) Args() []*Arg {
	return ifc.args
}

// AddArg
// registers an argument; re-declaring an existing name is a no-op
func (ifc *Interface) AddArg(a *Arg) {
	if ifc.ArgByName(a.Name()) != nil {
		return
	}
	a.setNumber(len(ifc.args))
	ifc.args = append(ifc.args, a)
}

// ArgByName
// finds a registered argument, nil when absent
func (ifc *Interface) ArgByName(name string) *Arg {
	for _, a := range ifc.args {
		if a.Name() == name {
			return a
		}
	}
	return nil
}

// HasReloadableArg true when any argument declared Reload
func (ifc *Interface) HasReloadableArg() bool {
	for _, a := range ifc.args {
		if a.HasReload() {
			return true
		}
	}
	return false
}

// HasDebug true when ConfigDebug was called
func (ifc *Interface) HasDebug() bool {
	return ifc.debug
}

// ConfigDebug
// declares debug support, adding the two standard debug arguments once
func (ifc *Interface) ConfigDebug() {
	if ifc.debug {
		return
	}
	ifc.debug = true
	ifc.AddArg(NewArg(ArgTypeBoolflag, "debug", ArgConfig{
		Display: "Run in debug mode",
		Default: "false",
		Tooltip: "Print debug messages",
		Group:   "Debug",
	}))
	ifc.AddArg(NewArg(ArgTypeString, "debug-file", ArgConfig{
		Display: "Use a file for debug",
		Tooltip: "Set a file where the debug messages are written",
		Group:   "Debug",
	}))
}

// PrintIface
// renders the interface descriptor line
func (ifc *Interface) PrintIface(w io.Writer) {
	_, _ = fmt.Fprintf(w, "interface {value=%s}", ifc.name)
	PrintOptValue(w, "display", ifc.descr)
	_, _ = fmt.Fprintln(w)
}

// PrintDltList
// renders the link type descriptor line, name defaults to the interface
func (ifc *Interface) PrintDltList(w io.Writer) {
	name := ifc.dltName
	if name == view.EmptyString {
		name = ifc.name
	}
	_, _ = fmt.Fprintf(w, "dlt {number=%d}{name=%s}", ifc.dlt, name)
	PrintOptValue(w, "display", ifc.dltDescr)
	_, _ = fmt.Fprintln(w)
}

// PrintArgList
// renders every argument with its values, in registration order
func (ifc *Interface) PrintArgList(w io.Writer) {
	for _, a := range ifc.args {
		a.PrintArg(w)
	}
}
