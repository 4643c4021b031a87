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

// ControlType interface toolbar control types
type ControlType int

const (
	ControlTypeNone ControlType = iota
	ControlTypeBoolean
	ControlTypeButton
	ControlTypeSelector
	ControlTypeString
)

// String
// wire name of the control type
func (t ControlType) String() string {
	switch t {
	case ControlTypeBoolean:
		return "boolean"
	case ControlTypeButton:
		return "button"
	case ControlTypeSelector:
		return "selector"
	case ControlTypeString:
		return "string"
	}
	return "none"
}

// ButtonRole roles of a button control
type ButtonRole int

const (
	RoleControl ButtonRole = iota
	RoleLogger
	RoleHelp
	RoleRestore
)

// String
// wire name of the button role
func (r ButtonRole) String() string {
	switch r {
	case RoleLogger:
		return "logger"
	case RoleHelp:
		return "help"
	case RoleRestore:
		return "restore"
	}
	return "control"
}

// ControlVal one selectable value of a selector control
type ControlVal struct {
	control int // owning control number, stamped at registration
	Value   string
	Display string
	Default bool
}

// ControlConfig optional control fields, all unset by default
type ControlConfig struct {
	Display     string
	Default     string
	Range       string
	Validation  string
	Tooltip     string
	Placeholder string
	Values      []ControlVal
}

// Control one GUI toolbar control, numbered across all controls
type Control struct {
	number      int
	controlType ControlType
	role        ButtonRole
	cfg         ControlConfig
	vals        []ControlVal
}

// NewControl
// declares a non-button toolbar control
func NewControl(controlType ControlType, cfg ControlConfig) *Control {
	c := &Control{
		number:      -1,
		controlType: controlType,
		cfg:         cfg,
	}
	vals := cfg.Values
	c.cfg.Values = nil
	for _, v := range vals {
		c.AddVal(v)
	}
	return c
}

// NewButtonControl
// declares a button toolbar control with the given role
func NewButtonControl(role ButtonRole, cfg ControlConfig) *Control {
	c := NewControl(ControlTypeButton, cfg)
	c.role = role
	return c
}

// Number registration ordinal across all controls, -1 before registration
func (c *Control) Number() int {
	return c.number
}

// Type declared control type
func (c *Control) Type() ControlType {
	return c.controlType
}

// AddVal
// appends one selectable value
func (c *Control) AddVal(v ControlVal) {
	v.control = c.number
	c.vals = append(c.vals, v)
}

// SetNumber
// assigns the ordinal and propagates it into the values
func (c *Control) SetNumber(number int) {
	c.number = number
	for i := range c.vals {
		c.vals[i].control = number
	}
}

// PrintControl
// renders the control descriptor line followed by its value lines
func (c *Control) PrintControl(w io.Writer) {
	_, _ = fmt.Fprintf(w, "control {number=%d}{type=%s}", c.number, c.controlType.String())
	if c.controlType == ControlTypeButton {
		_, _ = fmt.Fprintf(w, "{role=%s}", c.role.String())
	}
	PrintOptValue(w, "display", c.cfg.Display)
	PrintOptValue(w, "default", c.cfg.Default)
	PrintOptValue(w, "range", c.cfg.Range)
	PrintOptValue(w, "validation", c.cfg.Validation)
	PrintOptValue(w, "tooltip", c.cfg.Tooltip)
	PrintOptValue(w, "placeholder", c.cfg.Placeholder)
	_, _ = fmt.Fprintln(w)
	for i := range c.vals {
		c.vals[i].printVal(w)
	}
}

// printVal
// renders one value descriptor line referencing the owning control
func (v *ControlVal) printVal(w io.Writer) {
	display := v.Display
	if display == view.EmptyString {
		display = v.Value
	}
	_, _ = fmt.Fprintf(w, "value {control=%d}{value=%s}{display=%s}", v.control, v.Value, display)
	PrintOptFlag(w, "default", v.Default)
	_, _ = fmt.Fprintln(w)
}
