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
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMessageCount = 200 // more than the queue capacity on purpose

// testPipes
// one engine over two OS pipe pairs, cleaned up with the test
func testPipes(t *testing.T) (cp *ControlPipe, inWriter *os.File, outReader *os.File) {
	t.Helper()
	inR, inW, err := os.Pipe()
	require.NoError(t, err)
	outR, outW, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = inW.Close()
		_ = outR.Close()
	})
	return NewControlPipe(inR, outW), inW, outR
}

func TestInboundOrderWithBackpressure(t *testing.T) {
	cp, inW, _ := testPipes(t)
	pipes, err := cp.Start()
	require.NoError(t, err)

	go func() {
		for i := 0; i < testMessageCount; i++ {
			frame, _ := EncodeMsg(NewControlMsg(1, CmdSet, []byte(fmt.Sprintf("msg-%03d", i))))
			_, _ = inW.Write(frame)
		}
		_ = inW.Close()
	}()

	// slow reader: the queue fills up and the pump must suspend
	// reading without dropping anything
	for i := 0; i < testMessageCount; i++ {
		if i%50 == 0 {
			time.Sleep(10 * time.Millisecond)
		}
		select {
		case msg := <-pipes.Recv:
			assert.Equal(t, fmt.Sprintf("msg-%03d", i), string(msg.Data))
		case <-time.After(5 * time.Second):
			t.Fatalf("message %d never arrived", i)
		}
	}
	require.NoError(t, cp.Stop())
}

func TestOutboundOrder(t *testing.T) {
	cp, _, outR := testPipes(t)
	pipes, err := cp.Start()
	require.NoError(t, err)

	go func() {
		for i := 0; i < testMessageCount; i++ {
			pipes.Send <- NewControlMsg(2, CmdStatusbarMessage, []byte(fmt.Sprintf("out-%03d", i)))
		}
	}()

	var buf []byte
	chunk := make([]byte, 4096)
	for i := 0; i < testMessageCount; {
		msg, consumed, err := DecodeMsg(buf)
		require.NoError(t, err)
		if msg != nil {
			assert.Equal(t, fmt.Sprintf("out-%03d", i), string(msg.Data))
			buf = buf[consumed:]
			i++
			continue
		}
		n, err := outR.Read(chunk)
		require.NoError(t, err)
		buf = append(buf, chunk[:n]...)
	}
	require.NoError(t, cp.Stop())
}

func TestStopUnblocksPendingRead(t *testing.T) {
	cp, _, _ := testPipes(t)
	_, err := cp.Start()
	require.NoError(t, err)

	// no bytes ever arrive on the inbound pipe
	done := make(chan error, 1)
	go func() {
		done <- cp.Stop()
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Stop() did not return while the inbound pump was blocked")
	}
}

func TestFramingErrorTerminatesInboundOnly(t *testing.T) {
	cp, inW, outR := testPipes(t)
	pipes, err := cp.Start()
	require.NoError(t, err)

	// poison the inbound wire
	_, err = inW.Write([]byte{'X', 0, 0, 2, 0, 0})
	require.NoError(t, err)

	// the outbound pump keeps working
	pipes.Send <- NewControlMsg(5, CmdInformationMessage, []byte("still alive"))
	frame := make([]byte, 64)
	n, err := outR.Read(frame)
	require.NoError(t, err)
	msg, _, err := DecodeMsg(frame[:n])
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "still alive", string(msg.Data))
	require.NoError(t, cp.Stop())
}

func TestRemoteCloseDeliversBufferedMessages(t *testing.T) {
	cp, inW, _ := testPipes(t)
	pipes, err := cp.Start()
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		frame, _ := EncodeMsg(NewControlMsg(uint8(i), CmdEnable, nil))
		_, err = inW.Write(frame)
		require.NoError(t, err)
	}
	require.NoError(t, inW.Close())

	for i := 0; i < 3; i++ {
		select {
		case msg := <-pipes.Recv:
			assert.Equal(t, uint8(i), msg.ControlNumber)
		case <-time.After(5 * time.Second):
			t.Fatalf("message %d never arrived after remote close", i)
		}
	}
	require.NoError(t, cp.Stop())
}

func TestLifecycleContract(t *testing.T) {
	cp, _, _ := testPipes(t)

	// stop before start is a contract violation
	require.Error(t, cp.Stop())

	_, err := cp.Start()
	require.NoError(t, err)

	// second start is a contract violation
	_, err = cp.Start()
	require.Error(t, err)

	require.NoError(t, cp.Stop())

	// second stop is a contract violation
	require.Error(t, cp.Stop())
}
