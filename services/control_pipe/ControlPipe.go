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

// Package control_pipe bridges the two toolbar control pipes to
// in-process bounded queues. One pump per direction; neither pump can
// stall or kill the other.
package control_pipe

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/extcap-go/extcap/exception"
	"github.com/extcap-go/extcap/utils"
	log "github.com/sirupsen/logrus"
)

const (
	// QueueLen capacity of each message queue; a full inbound queue
	// suspends reading, messages are never dropped
	QueueLen = 128
	// readChunkLen read buffer size for the inbound pump
	readChunkLen = 4096
)

// CtrlPipes the queue endpoints handed to the capture routine
type CtrlPipes struct {
	// Recv delivers decoded inbound messages in wire order
	Recv <-chan ControlMsg
	// Send accepts outbound messages, written in submission order
	Send chan<- ControlMsg
}

type pipeState int

const (
	stateNew pipeState = iota
	stateStarted
	stateStopped
)

// ControlPipe owns the two pipe handles and the pump lifecycle
type ControlPipe struct {
	pipeIn  io.ReadCloser
	pipeOut io.WriteCloser
	lock    sync.Mutex
	state   pipeState
	stopIn  chan struct{}
	stopOut chan struct{}
	wg      sync.WaitGroup
	recv    chan ControlMsg
	send    chan ControlMsg
}

// NewControlPipe
// creates an engine over already opened pipe handles
func NewControlPipe(pipeIn io.ReadCloser, pipeOut io.WriteCloser) *ControlPipe {
	return &ControlPipe{
		pipeIn:  pipeIn,
		pipeOut: pipeOut,
		state:   stateNew,
		stopIn:  make(chan struct{}),
		stopOut: make(chan struct{}),
		recv:    make(chan ControlMsg, QueueLen),
		send:    make(chan ControlMsg, QueueLen),
	}
}

// Open
// opens the two named pipes and creates the engine around them
func Open(inPath, outPath string) (*ControlPipe, error) {
	pipeIn, err := os.Open(inPath)
	if err != nil {
		return nil, exception.Io(err)
	}
	pipeOut, err := os.Create(outPath)
	if err != nil {
		_ = pipeIn.Close()
		return nil, exception.Io(err)
	}
	return NewControlPipe(pipeIn, pipeOut), nil
}

// Start
// spawns both pumps and returns the queue endpoints.
// Legal exactly once per instance.
func (cp *ControlPipe) Start() (CtrlPipes, error) {
	cp.lock.Lock()
	defer cp.lock.Unlock()
	if cp.state != stateNew {
		log.Errorf("control pipe Start() called in wrong state")
		return CtrlPipes{}, fmt.Errorf("control pipe already started")
	}
	cp.state = stateStarted
	utils.SafeAsyncGroup(&cp.wg, cp.readPump)
	utils.SafeAsyncGroup(&cp.wg, cp.writePump)
	log.Debugf("control pipe started")
	return CtrlPipes{Recv: cp.recv, Send: cp.send}, nil
}

// Stop
// signals both pumps, cancels an in-flight read by closing the read
// pipe and returns once both pumps have exited. Legal exactly once,
// only after Start.
func (cp *ControlPipe) Stop() error {
	cp.lock.Lock()
	if cp.state != stateStarted {
		cp.lock.Unlock()
		log.Errorf("control pipe Stop() called in wrong state")
		return fmt.Errorf("control pipe not started")
	}
	cp.state = stateStopped
	cp.lock.Unlock()
	close(cp.stopIn)
	close(cp.stopOut)
	_ = cp.pipeIn.Close() // unblocks a pending read
	cp.wg.Wait()
	_ = cp.pipeOut.Close()
	close(cp.recv) // buffered messages stay readable
	log.Debugf("control pipe stopped")
	return nil
}

// stopping
// true once Stop has been signalled
func (cp *ControlPipe) stopping() bool {
	select {
	case <-cp.stopIn:
		return true
	default:
		return false
	}
}

// readPump
// decodes frames from the read pipe and forwards each onto the recv
// queue. A full queue suspends reading. A framing error terminates
// this pump only; a partially received frame is discarded on stop.
func (cp *ControlPipe) readPump() {
	var buf []byte
	chunk := make([]byte, readChunkLen)
	for {
		for {
			msg, consumed, err := DecodeMsg(buf)
			if err != nil {
				log.Errorf("control pipe inbound framing error: %v", err)
				return
			}
			if msg == nil {
				break // need more wire bytes
			}
			buf = buf[consumed:]
			select {
			case cp.recv <- *msg:
				log.Debugf("control pipe received %s for control %d", msg.Command, msg.ControlNumber)
			case <-cp.stopIn:
				return
			}
		}
		n, err := cp.pipeIn.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if err != nil {
			if err != io.EOF && !cp.stopping() {
				log.Errorf("control pipe read failed: %v", err)
			} else {
				log.Debugf("control pipe inbound closed: %v", err)
			}
			// deliver what is already fully framed
			for {
				msg, consumed, derr := DecodeMsg(buf)
				if derr != nil || msg == nil {
					return
				}
				buf = buf[consumed:]
				select {
				case cp.recv <- *msg:
				case <-cp.stopIn:
					return
				}
			}
		}
	}
}

// writePump
// encodes messages from the send queue onto the write pipe. A write
// failure terminates this pump only.
func (cp *ControlPipe) writePump() {
	for {
		select {
		case <-cp.stopOut:
			return
		case msg := <-cp.send:
			frame, err := EncodeMsg(msg)
			if err != nil {
				log.Errorf("control pipe outbound framing error: %v", err)
				return
			}
			if _, err := cp.pipeOut.Write(frame); err != nil {
				log.Errorf("control pipe write failed: %v", err)
				return
			}
			log.Debugf("control pipe sent %s for control %d", msg.Command, msg.ControlNumber)
		}
	}
}
