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

package control_pipe

import (
	"fmt"

	"github.com/extcap-go/extcap/exception"
)

// Control wire frame, big-endian:
//   byte 0     sync byte 'T'
//   bytes 1..3 message length (uint24), counts the two sub-header bytes
//   byte 4     control number
//   byte 5     command code
//   bytes 6..  opaque payload

const (
	// SyncByte sync pipe indication, first byte of every frame
	SyncByte = byte('T')
	// headerLen sync byte plus uint24 message length
	headerLen = 4
	// subHeaderLen control number plus command code, counted in the message length
	subHeaderLen = 2
	// maxMsgLen uint24 ceiling for the declared message length
	maxMsgLen = 0xffffff
)

// ControlCmd toolbar control command code. Codes above CmdErrorMessage
// are passed through unchanged.
type ControlCmd uint8

const (
	CmdInitialized ControlCmd = iota
	CmdSet
	CmdAdd
	CmdRemove
	CmdEnable
	CmdDisable
	CmdStatusbarMessage
	CmdInformationMessage
	CmdWarningMessage
	CmdErrorMessage
)

// String
// command name for logs
func (c ControlCmd) String() string {
	switch c {
	case CmdInitialized:
		return "initialized"
	case CmdSet:
		return "set"
	case CmdAdd:
		return "add"
	case CmdRemove:
		return "remove"
	case CmdEnable:
		return "enable"
	case CmdDisable:
		return "disable"
	case CmdStatusbarMessage:
		return "statusbar-message"
	case CmdInformationMessage:
		return "information-message"
	case CmdWarningMessage:
		return "warning-message"
	case CmdErrorMessage:
		return "error-message"
	}
	return fmt.Sprintf("unknown(%d)", uint8(c))
}

// ControlMsg one control protocol message, immutable once created
type ControlMsg struct {
	ControlNumber uint8
	Command       ControlCmd
	Data          []byte
}

// NewControlMsg
// creates a message with its own copy of the payload
func NewControlMsg(controlNumber uint8, command ControlCmd, data []byte) ControlMsg {
	msg := ControlMsg{ControlNumber: controlNumber, Command: command}
	if len(data) > 0 {
		msg.Data = make([]byte, len(data))
		copy(msg.Data, data)
	}
	return msg
}

// EncodeMsg
// frames a message for the wire
func EncodeMsg(msg ControlMsg) ([]byte, error) {
	msgLen := subHeaderLen + len(msg.Data)
	if msgLen > maxMsgLen {
		return nil, exception.Framing("payload of %d bytes exceeds the frame limit", len(msg.Data))
	}
	frame := make([]byte, 0, headerLen+msgLen)
	frame = append(frame, SyncByte,
		byte(msgLen>>16), byte(msgLen>>8), byte(msgLen),
		msg.ControlNumber, byte(msg.Command))
	frame = append(frame, msg.Data...)
	return frame, nil
}

// DecodeMsg
// decodes one frame from the front of buf. Returns the message and the
// number of consumed bytes, or (nil, 0, nil) when more data is needed.
// A bad sync byte or an undersized declared length is a framing error.
func DecodeMsg(buf []byte) (*ControlMsg, int, error) {
	if len(buf) < headerLen {
		return nil, 0, nil
	}
	if buf[0] != SyncByte {
		return nil, 0, exception.Framing("sync pipe indication 0x%02x != 'T'", buf[0])
	}
	msgLen := int(buf[1])<<16 | int(buf[2])<<8 | int(buf[3])
	if msgLen < subHeaderLen {
		return nil, 0, exception.Framing("message length %d < %d", msgLen, subHeaderLen)
	}
	if len(buf) < headerLen+msgLen {
		return nil, 0, nil
	}
	msg := NewControlMsg(buf[4], ControlCmd(buf[5]), buf[headerLen+subHeaderLen:headerLen+msgLen])
	return &msg, headerLen + msgLen, nil
}
