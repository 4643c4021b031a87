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

// Package pcap_sink writes the captured byte stream in pcap format to
// the fifo the host supplied, or to standard output.
package pcap_sink

import (
	"io"
	"os"
	"time"

	"github.com/extcap-go/extcap/exception"
	"github.com/extcap-go/extcap/view"
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	log "github.com/sirupsen/logrus"
)

// Header pcap global header parameters for one capture session
type Header struct {
	SnapLen  uint32
	LinkType layers.LinkType
}

// DefaultHeader
// the header used when the listener does not provide one
func DefaultHeader(dlt uint32) Header {
	return Header{
		SnapLen:  view.DefaultSnapLenBytes,
		LinkType: layers.LinkType(dlt),
	}
}

// Sink pcap-format data sink, exclusively owned by one capture session
type Sink struct {
	out      io.Writer
	file     *os.File
	ownsFile bool
	writer   *pcapgo.Writer
	snapLen  uint32
}

// NewSink
// opens the sink ("-" means stdout) and writes the pcap global header.
// Any failure here is fatal to the capture step.
func NewSink(fifo string, hdr Header) (*Sink, error) {
	s := &Sink{snapLen: hdr.SnapLen}
	if fifo == view.StdoutFifo {
		s.file = os.Stdout
	} else {
		fh, err := os.OpenFile(fifo, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return nil, exception.Io(err)
		}
		s.file = fh
		s.ownsFile = true
	}
	s.out = s.file
	s.writer = pcapgo.NewWriter(s.out)
	if err := s.writer.WriteFileHeader(hdr.SnapLen, hdr.LinkType); err != nil {
		_ = s.Close()
		return nil, exception.Io(err)
	}
	log.Debugf("pcap sink opened at '%s', snaplen %d, link type %d", fifo, hdr.SnapLen, hdr.LinkType)
	return s, nil
}

// Writer the underlying pcap record writer
func (s *Sink) Writer() *pcapgo.Writer {
	return s.writer
}

// WritePacket
// writes one packet record, truncating data to the snapshot length
func (s *Sink) WritePacket(ts time.Time, data []byte) error {
	ci := gopacket.CaptureInfo{
		Timestamp:     ts,
		CaptureLength: len(data),
		Length:        len(data),
	}
	if uint32(ci.CaptureLength) > s.snapLen {
		ci.CaptureLength = int(s.snapLen)
		data = data[:s.snapLen]
	}
	if err := s.writer.WritePacket(ci, data); err != nil {
		return exception.Io(err)
	}
	return nil
}

// Close
// closes the sink file; stdout is left open
func (s *Sink) Close() error {
	if s.ownsFile && s.file != nil {
		err := s.file.Close()
		s.file = nil
		if err != nil {
			return exception.Io(err)
		}
	}
	return nil
}
