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

// An extcap provider that emits random packets and exercises the full
// toolbar control surface: it echoes control changes back to the host
// and reports its session on the statusbar.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/extcap-go/extcap"
	"github.com/extcap-go/extcap/entities"
	"github.com/extcap-go/extcap/services/control_pipe"
	"github.com/extcap-go/extcap/services/pcap_sink"
	"github.com/extcap-go/extcap/utils"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const version = "0.1.0"

// Toolbar control ordinals, matching the registration order in main
const (
	ctrlMessage = iota
	ctrlDelay
	ctrlVerify
	ctrlButton
	ctrlHelp
	ctrlRestore
	ctrlLogger
)

type randListener struct {
	delay atomic.Int64
}

// Capture
// generates random packets until the host terminates the process,
// serving toolbar control messages on the side
func (l *randListener) Capture(ex *extcap.Extcap, ifc *entities.Interface, sink *pcap_sink.Sink, pipes *control_pipe.CtrlPipes) error {
	maxBytes, err := strconv.Atoi(ex.ValueOr("maxbytes", "256"))
	if err != nil {
		return err
	}
	delay, err := strconv.Atoi(ex.ValueOr("delay", "1"))
	if err != nil {
		return err
	}
	l.delay.Store(int64(delay))

	if pipes != nil {
		sessionId := uuid.New().String()
		pipes.Send <- control_pipe.NewControlMsg(ctrlLogger, control_pipe.CmdAdd,
			[]byte(fmt.Sprintf("session %s started\n", sessionId)))
		pipes.Send <- control_pipe.NewControlMsg(0, control_pipe.CmdStatusbarMessage,
			[]byte("randdump session "+sessionId))
		utils.SafeAsync(func() {
			l.serveControls(pipes)
		})
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	zeroed := ex.ValueOr("type", "random") == "zero"
	packet := make([]byte, maxBytes)
	for {
		size := 1 + rand.Intn(maxBytes)
		if !zeroed {
			for i := 0; i < size; i++ {
				packet[i] = byte(rand.Intn(256))
			}
		}
		if err := sink.WritePacket(time.Now(), packet[:size]); err != nil {
			return err
		}
		select {
		case <-stop:
			log.Debugf("termination signal received")
			return nil
		case <-time.After(time.Duration(l.delay.Load()) * time.Second):
		}
	}
}

// serveControls
// toolbar message loop: logs every change and echoes it back so the
// host sees the accepted value
func (l *randListener) serveControls(pipes *control_pipe.CtrlPipes) {
	for msg := range pipes.Recv {
		log.Debugf("control %d command %s payload %q", msg.ControlNumber, msg.Command, msg.Data)
		switch {
		case msg.Command == control_pipe.CmdInitialized:
			pipes.Send <- control_pipe.NewControlMsg(0, control_pipe.CmdStatusbarMessage,
				[]byte("toolbar initialized"))
		case msg.ControlNumber == ctrlDelay && msg.Command == control_pipe.CmdSet:
			if delay, err := strconv.Atoi(string(msg.Data)); err == nil {
				l.delay.Store(int64(delay))
			}
			pipes.Send <- control_pipe.NewControlMsg(ctrlLogger, control_pipe.CmdAdd,
				[]byte(fmt.Sprintf("delay set to %ss\n", msg.Data)))
		case msg.ControlNumber == ctrlMessage && msg.Command == control_pipe.CmdSet:
			pipes.Send <- control_pipe.NewControlMsg(0, control_pipe.CmdInformationMessage, msg.Data)
		case msg.ControlNumber == ctrlButton && msg.Command == control_pipe.CmdSet:
			pipes.Send <- control_pipe.NewControlMsg(ctrlButton, control_pipe.CmdSet, []byte("Turned on"))
		default:
			pipes.Send <- control_pipe.NewControlMsg(msg.ControlNumber, control_pipe.CmdSet, msg.Data)
		}
	}
}

// ReloadOption
// serves a fresh value list for the reloadable packet type selector
func (l *randListener) ReloadOption(ex *extcap.Extcap, ifc *entities.Interface, arg *entities.Arg) []entities.ArgVal {
	if arg.Name() != "type" {
		return nil
	}
	return []entities.ArgVal{
		{Value: "random", Display: "Random bytes", Default: true},
		{Value: "zero", Display: "Zeroed bytes"},
		{Value: "reloaded-" + time.Now().Format("15:04:05")},
	}
}

func main() {
	ex := extcap.New("randdump")
	ex.SetVersion(version)
	ex.SetHelp("http://www.wireshark.org/docs/man-pages/randpkt.html")

	ifc := entities.NewInterface("randpkt", entities.InterfaceConfig{
		Description: "Random packet generator",
	})
	ifc.AddArg(entities.NewArg(entities.ArgTypeUnsigned, "maxbytes", entities.ArgConfig{
		Display: "Max bytes in a packet",
		Default: "256",
		Range:   "1,5000",
	}))
	ifc.AddArg(entities.NewArg(entities.ArgTypeUnsigned, "delay", entities.ArgConfig{
		Display: "Packet delay (seconds)",
		Default: "1",
		Range:   "1,60",
	}))
	ifc.AddArg(entities.NewArg(entities.ArgTypeSelector, "type", entities.ArgConfig{
		Display: "Type of packet",
		Reload:  true,
		Values: []entities.ArgVal{
			{Value: "random", Display: "Random bytes", Default: true},
			{Value: "zero", Display: "Zeroed bytes"},
		},
	}))
	ifc.ConfigDebug()
	ex.AddInterface(ifc)

	ex.AddControl(entities.NewControl(entities.ControlTypeString, entities.ControlConfig{
		Display:     "Message",
		Placeholder: "Enter a message to show as an information dialog",
	}))
	ex.AddControl(entities.NewControl(entities.ControlTypeSelector, entities.ControlConfig{
		Display: "Time delay",
		Tooltip: "Seconds between packets",
		Values: []entities.ControlVal{
			{Value: "1", Display: "1 sec", Default: true},
			{Value: "5", Display: "5 sec"},
			{Value: "10", Display: "10 sec"},
		},
	}))
	ex.AddControl(entities.NewControl(entities.ControlTypeBoolean, entities.ControlConfig{
		Display: "Verify",
		Tooltip: "Verify flag, echoed back on change",
	}))
	ex.AddControl(entities.NewButtonControl(entities.RoleControl, entities.ControlConfig{
		Display: "Turn on",
	}))
	ex.AddControl(entities.NewButtonControl(entities.RoleHelp, entities.ControlConfig{
		Display: "Help",
	}))
	ex.AddControl(entities.NewButtonControl(entities.RoleRestore, entities.ControlConfig{
		Display: "Restore",
	}))
	ex.AddControl(entities.NewButtonControl(entities.RoleLogger, entities.ControlConfig{
		Display: "Log",
	}))

	if err := ex.Run(&randListener{}); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}
