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

// An extcap provider that binds a UDP port and dumps every received
// datagram to the capture stream.
package main

import (
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/extcap-go/extcap"
	"github.com/extcap-go/extcap/entities"
	"github.com/extcap-go/extcap/services/control_pipe"
	"github.com/extcap-go/extcap/services/pcap_sink"
	log "github.com/sirupsen/logrus"
)

const (
	version     = "0.1.0"
	defaultPort = "5555"
	defaultDlt  = "147"
	readTimeout = 500 * time.Millisecond
)

type udpListener struct{}

// Capture
// binds the requested UDP port and copies datagrams to the sink until
// the host terminates the process
func (l *udpListener) Capture(ex *extcap.Extcap, ifc *entities.Interface, sink *pcap_sink.Sink, pipes *control_pipe.CtrlPipes) error {
	port, err := strconv.Atoi(ex.ValueOr("port", defaultPort))
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: port})
	if err != nil {
		return err
	}
	defer func() {
		_ = conn.Close()
	}()
	log.Debugf("listening on UDP port %d", port)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	buf := make([]byte, 65535)
	for {
		select {
		case <-stop:
			log.Debugf("termination signal received")
			return nil
		default:
		}
		// the deadline keeps the signal check responsive
		if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			return err
		}
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			return err
		}
		log.Debugf("%d bytes from %s", n, addr)
		if err := sink.WritePacket(time.Now(), buf[:n]); err != nil {
			return err
		}
	}
}

// CaptureHeader
// honors the --dlt argument when the host supplied one
func (l *udpListener) CaptureHeader(ex *extcap.Extcap, ifc *entities.Interface) pcap_sink.Header {
	dlt, err := strconv.ParseUint(ex.ValueOr("dlt", defaultDlt), 10, 32)
	if err != nil {
		log.Warnf("bad dlt value '%s', falling back to %d", ex.Value("dlt"), ifc.Dlt())
		return pcap_sink.DefaultHeader(ifc.Dlt())
	}
	return pcap_sink.DefaultHeader(uint32(dlt))
}

func main() {
	ex := extcap.New("udpdump")
	ex.SetVersion(version)
	ex.SetHelp("http://www.wireshark.org/docs/man-pages/udpdump.html")

	ifc := entities.NewInterface("rudp", entities.InterfaceConfig{
		Description: "UDP Listener remote capture",
	})
	ifc.AddArg(entities.NewArg(entities.ArgTypeUnsigned, "port", entities.ArgConfig{
		Display: "Listen port",
		Default: defaultPort,
		Range:   "1,65535",
		Tooltip: "The port the provider listens on. Default: " + defaultPort,
	}))
	ifc.AddArg(entities.NewArg(entities.ArgTypeUnsigned, "dlt", entities.ArgConfig{
		Display: "Payload DLT",
		Default: defaultDlt,
		Tooltip: "The DLT of the payload. Default: " + defaultDlt + " (DLT_USER0)",
	}))
	ifc.ConfigDebug()
	ex.AddInterface(ifc)

	if err := ex.Run(&udpListener{}); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}
