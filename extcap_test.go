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
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path"
	"testing"
	"time"

	"github.com/extcap-go/extcap/entities"
	"github.com/extcap-go/extcap/exception"
	"github.com/extcap-go/extcap/services/control_pipe"
	"github.com/extcap-go/extcap/services/pcap_sink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubListener minimal listener used by most of the tests
type stubListener struct {
	captured   bool
	capturedIf string
	captureErr error
	packet     []byte
}

func (l *stubListener) Capture(ex *Extcap, ifc *entities.Interface, sink *pcap_sink.Sink, pipes *control_pipe.CtrlPipes) error {
	l.captured = true
	l.capturedIf = ifc.Name()
	if l.packet != nil {
		if err := sink.WritePacket(time.Unix(1700000000, 0), l.packet); err != nil {
			return err
		}
	}
	return l.captureErr
}

// reloadListener stub with the optional reload hook
type reloadListener struct {
	stubListener
	reloadedArg string
	vals        []entities.ArgVal
}

func (l *reloadListener) ReloadOption(ex *Extcap, ifc *entities.Interface, arg *entities.Arg) []entities.ArgVal {
	l.reloadedArg = arg.Name()
	return l.vals
}

// headerListener stub with the optional header hook
type headerListener struct {
	stubListener
	hdr pcap_sink.Header
}

func (l *headerListener) CaptureHeader(ex *Extcap, ifc *entities.Interface) pcap_sink.Header {
	return l.hdr
}

func newTestExtcap(out *bytes.Buffer) *Extcap {
	ex := New("exampledump")
	ex.SetVersion("0.1.2")
	ex.SetHelp("http://example.com/help")
	ex.SetOutput(out)
	ifc := entities.NewInterface("rudp", entities.InterfaceConfig{Description: "UDP remote capture"})
	ifc.AddArg(entities.NewArg(entities.ArgTypeUnsigned, "port", entities.ArgConfig{
		Display: "Port",
		Default: "5555",
		Range:   "1,65535",
	}))
	ifc.AddArg(entities.NewArg(entities.ArgTypeSelector, "remote", entities.ArgConfig{
		Display: "Remote",
		Reload:  true,
		Values:  []entities.ArgVal{{Value: "eu", Display: "Europe"}, {Value: "us", Default: true}},
	}))
	ex.AddInterface(ifc)
	return ex
}

func TestQueryInterfacesOutput(t *testing.T) {
	var out bytes.Buffer
	ex := newTestExtcap(&out)
	ex.AddControl(entities.NewButtonControl(entities.RoleHelp, entities.ControlConfig{Display: "Help"}))

	require.NoError(t, ex.RunArgs([]string{"--extcap-interfaces", "--extcap-version=4.2"}, &stubListener{}))
	assert.Equal(t,
		"extcap {version=0.1.2}{help=http://example.com/help}\n"+
			"interface {value=rudp}{display=UDP remote capture}\n"+
			"control {number=0}{type=button}{role=help}{display=Help}\n",
		out.String())
	assert.Equal(t, StepQueryIfaces, ex.Step().Kind)
	assert.Equal(t, "4.2", ex.WiresharkVersion())
}

func TestQueryInterfacesDefaultVersion(t *testing.T) {
	var out bytes.Buffer
	ex := New("bare")
	ex.SetOutput(&out)
	require.NoError(t, ex.RunArgs([]string{"--extcap-interfaces"}, &stubListener{}))
	assert.Equal(t, "extcap {version=unknown}\n", out.String())
}

func TestQueryInterfacesWinsPrecedence(t *testing.T) {
	var out bytes.Buffer
	ex := newTestExtcap(&out)
	// conflicting steps are not validated when the interface query wins
	require.NoError(t, ex.RunArgs([]string{"--extcap-interfaces", "--extcap-dlts", "--capture"}, &stubListener{}))
	assert.Equal(t, StepQueryIfaces, ex.Step().Kind)
	assert.Contains(t, out.String(), "interface {value=rudp}")
}

func TestInterfacesConflictsWithInterface(t *testing.T) {
	var out bytes.Buffer
	ex := newTestExtcap(&out)
	err := ex.RunArgs([]string{"--extcap-interfaces", "--extcap-interface=rudp"}, &stubListener{})
	require.Error(t, err)
	assert.True(t, exception.IsKind(err, exception.KindFlagParse))
}

func TestQueryDltsOutput(t *testing.T) {
	var out bytes.Buffer
	ex := newTestExtcap(&out)
	require.NoError(t, ex.RunArgs([]string{"--extcap-dlts", "--extcap-interface=rudp"}, &stubListener{}))
	assert.Equal(t, "dlt {number=147}{name=rudp}\n", out.String())
	assert.Equal(t, StepQueryDlts, ex.Step().Kind)
}

func TestQueryDltsMissingInterface(t *testing.T) {
	var out bytes.Buffer
	ex := newTestExtcap(&out)
	err := ex.RunArgs([]string{"--extcap-dlts"}, &stubListener{})
	require.Error(t, err)
	assert.True(t, exception.IsKind(err, exception.KindMissingInterface))
}

func TestQueryDltsUnknownInterface(t *testing.T) {
	var out bytes.Buffer
	ex := newTestExtcap(&out)
	err := ex.RunArgs([]string{"--extcap-dlts", "--extcap-interface=bogus"}, &stubListener{})
	require.Error(t, err)
	assert.True(t, exception.IsKind(err, exception.KindInvalidInterface))
	assert.Contains(t, err.Error(), "bogus")
}

func TestConfigOutput(t *testing.T) {
	var out bytes.Buffer
	ex := newTestExtcap(&out)
	require.NoError(t, ex.RunArgs([]string{"--extcap-config", "--extcap-interface=rudp"}, &stubListener{}))
	assert.Equal(t,
		"arg {number=0}{call=--port}{display=Port}{type=unsigned}{default=5555}{range=1,65535}\n"+
			"arg {number=1}{call=--remote}{display=Remote}{type=selector}{reload=true}\n"+
			"value {arg=1}{value=eu}{display=Europe}\n"+
			"value {arg=1}{value=us}{display=us}{default=true}\n",
		out.String())
}

func TestConfigDuplicateArgRegisteredOnce(t *testing.T) {
	var out bytes.Buffer
	ex := New("exampledump")
	ex.SetOutput(&out)
	ifc := entities.NewInterface("dup", entities.InterfaceConfig{})
	ifc.AddArg(entities.NewArg(entities.ArgTypeString, "name", entities.ArgConfig{Display: "First"}))
	ifc.AddArg(entities.NewArg(entities.ArgTypeString, "name", entities.ArgConfig{Display: "Second"}))
	ex.AddInterface(ifc)

	require.NoError(t, ex.RunArgs([]string{"--extcap-config", "--extcap-interface=dup"}, &stubListener{}))
	assert.Equal(t, "arg {number=0}{call=--name}{display=First}{type=string}\n", out.String())
}

func TestReloadOptionReplacesValues(t *testing.T) {
	var out bytes.Buffer
	ex := newTestExtcap(&out)
	listener := &reloadListener{vals: []entities.ArgVal{
		{Value: "ap", Display: "Asia"},
		{Value: "au", Default: true},
	}}
	require.NoError(t, ex.RunArgs([]string{
		"--extcap-config", "--extcap-interface=rudp", "--extcap-reload-option=remote",
	}, listener))
	assert.Equal(t, "remote", listener.reloadedArg)
	assert.Equal(t,
		"arg {number=1}{call=--remote}{display=Remote}{type=selector}{reload=true}\n"+
			"value {arg=1}{value=ap}{display=Asia}\n"+
			"value {arg=1}{value=au}{display=au}{default=true}\n",
		out.String())
}

func TestReloadOptionNoListenerHookKeepsValues(t *testing.T) {
	var out bytes.Buffer
	ex := newTestExtcap(&out)
	require.NoError(t, ex.RunArgs([]string{
		"--extcap-config", "--extcap-interface=rudp", "--extcap-reload-option=remote",
	}, &stubListener{}))
	assert.Equal(t,
		"arg {number=1}{call=--remote}{display=Remote}{type=selector}{reload=true}\n"+
			"value {arg=1}{value=eu}{display=Europe}\n"+
			"value {arg=1}{value=us}{display=us}{default=true}\n",
		out.String())
}

func TestReloadOptionUnknownArg(t *testing.T) {
	var out bytes.Buffer
	ex := newTestExtcap(&out)
	listener := &reloadListener{}
	require.NoError(t, ex.RunArgs([]string{
		"--extcap-config", "--extcap-interface=rudp", "--extcap-reload-option=absent",
	}, listener))
	assert.Empty(t, out.String())
	assert.Empty(t, listener.reloadedArg)
}

func TestValidateOneActionOnly(t *testing.T) {
	var out bytes.Buffer
	ex := newTestExtcap(&out)
	err := ex.RunArgs([]string{"--extcap-dlts", "--extcap-config", "--extcap-interface=rudp"}, &stubListener{})
	require.Error(t, err)
	assert.True(t, exception.IsKind(err, exception.KindFlagParse))
}

func TestValidateCaptureRequiresFifo(t *testing.T) {
	var out bytes.Buffer
	ex := newTestExtcap(&out)
	err := ex.RunArgs([]string{"--capture", "--extcap-interface=rudp"}, &stubListener{})
	require.Error(t, err)
	assert.True(t, exception.IsKind(err, exception.KindFlagParse))
}

func TestValidateFifoRequiresCapture(t *testing.T) {
	var out bytes.Buffer
	ex := newTestExtcap(&out)
	err := ex.RunArgs([]string{"--extcap-dlts", "--extcap-interface=rudp", "--fifo=/tmp/f"}, &stubListener{})
	require.Error(t, err)
	assert.True(t, exception.IsKind(err, exception.KindFlagParse))
}

func TestValidateReloadRequiresConfig(t *testing.T) {
	var out bytes.Buffer
	ex := newTestExtcap(&out)
	err := ex.RunArgs([]string{"--extcap-dlts", "--extcap-interface=rudp", "--extcap-reload-option=remote"}, &stubListener{})
	require.Error(t, err)
	assert.True(t, exception.IsKind(err, exception.KindFlagParse))
}

func TestUnknownFlag(t *testing.T) {
	var out bytes.Buffer
	ex := newTestExtcap(&out)
	err := ex.RunArgs([]string{"--no-such-flag"}, &stubListener{})
	require.Error(t, err)
	assert.True(t, exception.IsKind(err, exception.KindFlagParse))
}

func TestNoStep(t *testing.T) {
	var out bytes.Buffer
	ex := newTestExtcap(&out)
	err := ex.RunArgs([]string{"--extcap-interface=rudp"}, &stubListener{})
	require.Error(t, err)
	assert.True(t, exception.IsKind(err, exception.KindUnknownStep))
	assert.Equal(t, StepNone, ex.Step().Kind)
}

func TestCaptureWritesPcap(t *testing.T) {
	var out bytes.Buffer
	ex := newTestExtcap(&out)
	fifo := path.Join(t.TempDir(), "out.pcap")
	listener := &stubListener{packet: []byte("payload")}

	require.NoError(t, ex.RunArgs([]string{
		"--capture", "--extcap-interface=rudp", "--fifo=" + fifo, "--port=6000",
	}, listener))
	assert.True(t, listener.captured)
	assert.Equal(t, "rudp", listener.capturedIf)
	assert.Equal(t, StepCapture, ex.Step().Kind)
	assert.False(t, ex.Step().CtrlPipe)
	assert.Equal(t, "6000", ex.ValueOr("port", "5555"))
	assert.Empty(t, out.String())

	data, err := os.ReadFile(fifo)
	require.NoError(t, err)
	require.Len(t, data, 24+16+len("payload"))
	assert.Equal(t, uint32(0xa1b2c3d4), binary.LittleEndian.Uint32(data[0:4]))
	assert.Equal(t, uint32(147), binary.LittleEndian.Uint32(data[20:24]))
}

func TestCaptureHeaderProvider(t *testing.T) {
	var out bytes.Buffer
	ex := newTestExtcap(&out)
	fifo := path.Join(t.TempDir(), "out.pcap")
	listener := &headerListener{hdr: pcap_sink.Header{SnapLen: 1024, LinkType: 1}}

	require.NoError(t, ex.RunArgs([]string{
		"--capture", "--extcap-interface=rudp", "--fifo=" + fifo,
	}, listener))

	data, err := os.ReadFile(fifo)
	require.NoError(t, err)
	require.Len(t, data, 24)
	assert.Equal(t, uint32(1024), binary.LittleEndian.Uint32(data[16:20]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(data[20:24]))
}

func TestCaptureListenerError(t *testing.T) {
	var out bytes.Buffer
	ex := newTestExtcap(&out)
	fifo := path.Join(t.TempDir(), "out.pcap")
	listener := &stubListener{captureErr: errors.New("device gone")}

	err := ex.RunArgs([]string{"--capture", "--extcap-interface=rudp", "--fifo=" + fifo}, listener)
	require.Error(t, err)
	assert.True(t, exception.IsKind(err, exception.KindUser))
	assert.Contains(t, err.Error(), "device gone")
}

func TestCaptureSinkOpenFailure(t *testing.T) {
	var out bytes.Buffer
	ex := newTestExtcap(&out)
	listener := &stubListener{}
	err := ex.RunArgs([]string{
		"--capture", "--extcap-interface=rudp",
		"--fifo=" + path.Join(t.TempDir(), "no", "such", "dir.pcap"),
	}, listener)
	require.Error(t, err)
	assert.True(t, exception.IsKind(err, exception.KindIo))
	assert.False(t, listener.captured)
}

func TestCaptureWithControlPipes(t *testing.T) {
	var out bytes.Buffer
	ex := newTestExtcap(&out)
	ex.AddControl(entities.NewControl(entities.ControlTypeBoolean, entities.ControlConfig{Display: "Verify"}))
	dir := t.TempDir()
	ctrlIn := path.Join(dir, "ctrl-in")
	ctrlOut := path.Join(dir, "ctrl-out")
	require.NoError(t, os.WriteFile(ctrlIn, nil, 0644))
	fifo := path.Join(dir, "out.pcap")

	pipesSeen := make(chan bool, 1)
	listener := &pipeProbeListener{pipesSeen: pipesSeen}
	require.NoError(t, ex.RunArgs([]string{
		"--capture", "--extcap-interface=rudp", "--fifo=" + fifo,
		"--extcap-control-in=" + ctrlIn, "--extcap-control-out=" + ctrlOut,
	}, listener))
	assert.True(t, ex.Step().CtrlPipe)
	assert.True(t, <-pipesSeen)
}

// pipeProbeListener reports whether control pipes were attached
type pipeProbeListener struct {
	pipesSeen chan bool
}

func (l *pipeProbeListener) Capture(ex *Extcap, ifc *entities.Interface, sink *pcap_sink.Sink, pipes *control_pipe.CtrlPipes) error {
	l.pipesSeen <- pipes != nil
	return nil
}
