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

package view

const (
	EmptyString = ""
	// StdoutFifo fifo value requesting the pcap stream on standard output
	StdoutFifo = "-"
	// DefaultSnapLenBytes the same default as tcpdump
	DefaultSnapLenBytes = 256 * 1024
	// DefaultDlt DLT_USER0, used when an interface declares no link type
	DefaultDlt = 147
	// UnknownVersion printed when no provider version was set
	UnknownVersion = "unknown"
	// DebugLogFileMaxSizeMb rotation threshold for --debug-file logs
	DebugLogFileMaxSizeMb = 10
)
