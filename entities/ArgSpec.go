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

// ArgType extcap argument types
type ArgType int

const (
	ArgTypeNone ArgType = iota
	ArgTypeInteger
	ArgTypeUnsigned
	ArgTypeLong
	ArgTypeDouble
	ArgTypeString
	ArgTypePassword
	ArgTypeBoolean
	ArgTypeBoolflag
	ArgTypeFileselect
	ArgTypeSelector
	ArgTypeRadio
	ArgTypeMulticheck
	ArgTypeTimestamp
)

// String
// wire name of the argument type
func (t ArgType) String() string {
	switch t {
	case ArgTypeInteger:
		return "integer"
	case ArgTypeUnsigned:
		return "unsigned"
	case ArgTypeLong:
		return "long"
	case ArgTypeDouble:
		return "double"
	case ArgTypeString:
		return "string"
	case ArgTypePassword:
		return "password"
	case ArgTypeBoolean:
		return "boolean"
	case ArgTypeBoolflag:
		return "boolflag"
	case ArgTypeFileselect:
		return "fileselect"
	case ArgTypeSelector:
		return "selector"
	case ArgTypeRadio:
		return "radio"
	case ArgTypeMulticheck:
		return "multicheck"
	case ArgTypeTimestamp:
		return "timestamp"
	}
	return "none"
}

// ArgVal one selectable value of an argument
type ArgVal struct {
	arg     int // owning argument number, stamped at registration
	Value   string
	Display string
	Default bool
}

// ArgConfig optional argument fields, all unset by default
type ArgConfig struct {
	Display     string
	Default     string
	Range       string
	Validation  string
	MustExist   bool
	Reload      bool
	Placeholder string
	Tooltip     string
	Group       string
	Values      []ArgVal
}

// Arg one declared configuration argument of an interface.
// Mechanically projects into one --<name> command line flag.
type Arg struct {
	number  int
	name    string
	argType ArgType
	cfg     ArgConfig
	vals    []ArgVal
}

// NewArg
// creates an argument declaration, not yet owned by any interface
func NewArg(argType ArgType, name string, cfg ArgConfig) *Arg {
	a := &Arg{
		number:  -1,
		name:    name,
		argType: argType,
		cfg:     cfg,
	}
	vals := cfg.Values
	a.cfg.Values = nil
	for _, v := range vals {
		a.AddVal(v)
	}
	return a
}

// Name argument name, the unique key within an interface
func (a *Arg) Name() string {
	return a.name
}

// Number ordinal within the owning interface, -1 before registration
func (a *Arg) Number() int {
	return a.number
}

// Display display string, falls back to the name when rendered
func (a *Arg) Display() string {
	return a.cfg.Display
}

// Type declared argument type
func (a *Arg) Type() ArgType {
	return a.argType
}

// HasReload true when the argument supports value reloading
func (a *Arg) HasReload() bool {
	return a.cfg.Reload
}

// TakesValue boolflag arguments are bare flags, everything else takes one
func (a *Arg) TakesValue() bool {
	return a.argType != ArgTypeBoolflag
}

// Vals current ordered value list
func (a *Arg) Vals() []ArgVal {
	return a.vals
}

// AddVal
// appends one selectable value
func (a *Arg) AddVal(v ArgVal) {
	v.arg = a.number
	a.vals = append(a.vals, v)
}

// setNumber
// assigns the ordinal and propagates it into the values
func (a *Arg) setNumber(number int) {
	a.number = number
	for i := range a.vals {
		a.vals[i].arg = number
	}
}

// ReplaceVals
// splices a reloaded value list in, preserving the owner back-reference
func (a *Arg) ReplaceVals(vals []ArgVal) {
	a.vals = a.vals[:0]
	for _, v := range vals {
		v.arg = a.number
		a.vals = append(a.vals, v)
	}
}

// PrintArg
// renders the arg descriptor line followed by its value lines
func (a *Arg) PrintArg(w io.Writer) {
	display := a.cfg.Display
	if display == view.EmptyString {
		display = a.name
	}
	_, _ = fmt.Fprintf(w, "arg {number=%d}{call=--%s}{display=%s}{type=%s}",
		a.number, a.name, display, a.argType.String())
	PrintOptValue(w, "default", a.cfg.Default)
	PrintOptValue(w, "range", a.cfg.Range)
	PrintOptValue(w, "validation", a.cfg.Validation)
	PrintOptFlag(w, "mustexist", a.cfg.MustExist)
	PrintOptFlag(w, "reload", a.cfg.Reload)
	PrintOptValue(w, "placeholder", a.cfg.Placeholder)
	PrintOptValue(w, "tooltip", a.cfg.Tooltip)
	PrintOptValue(w, "group", a.cfg.Group)
	_, _ = fmt.Fprintln(w)
	for i := range a.vals {
		a.vals[i].printVal(w)
	}
}

// printVal
// renders one value descriptor line referencing the owning argument
func (v *ArgVal) printVal(w io.Writer) {
	display := v.Display
	if display == view.EmptyString {
		display = v.Value
	}
	_, _ = fmt.Fprintf(w, "value {arg=%d}{value=%s}{display=%s}", v.arg, v.Value, display)
	PrintOptFlag(w, "default", v.Default)
	_, _ = fmt.Fprintln(w)
}
