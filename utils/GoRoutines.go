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

package utils

import (
	"runtime/debug"
	"sync"

	log "github.com/sirupsen/logrus"
)

// noPanicFunc
// turns panic into an error
type noPanicFunc func()

// run
// runs and recovers function
func (f noPanicFunc) run() {
	defer internalRecover()
	f()
}

// SafeAsync
// suppress panics within goroutine
func SafeAsync(function noPanicFunc) {
	go function.run()
}

// SafeRun
// suppress panics
func SafeRun(function noPanicFunc) {
	function.run()
}

// SafeAsyncGroup
// suppress panics within goroutine, tracked by the wait group
func SafeAsyncGroup(wg *sync.WaitGroup, function noPanicFunc) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		function.run()
	}()
}

// internalRecover
// panic recovery
func internalRecover() {
	if err := recover(); err != nil {
		log.Errorf("Request failed with panic: %v", err)
		log.Tracef("Stacktrace: %v", string(debug.Stack()))
		debug.PrintStack()
		return
	}
}
