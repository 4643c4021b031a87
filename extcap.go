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

// Package extcap implements the Wireshark extcap integration
// convention: command line introspection, the line-oriented descriptor
// protocol on standard output, a pcap data stream on the host fifo and
// an optional control pipe pair during capture.
package extcap

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/extcap-go/extcap/entities"
	"github.com/extcap-go/extcap/exception"
	"github.com/extcap-go/extcap/services/control_pipe"
	"github.com/extcap-go/extcap/services/pcap_sink"
	"github.com/extcap-go/extcap/view"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Fixed extcap command line flags, long form only
const (
	OptExtcapVersion       = "extcap-version"
	OptExtcapInterfaces    = "extcap-interfaces"
	OptExtcapInterface     = "extcap-interface"
	OptExtcapDlts          = "extcap-dlts"
	OptExtcapConfig        = "extcap-config"
	OptExtcapReloadOption  = "extcap-reload-option"
	OptCapture             = "capture"
	OptExtcapCaptureFilter = "extcap-capture-filter"
	OptFifo                = "fifo"
	OptExtcapControlIn     = "extcap-control-in"
	OptExtcapControlOut    = "extcap-control-out"
	OptDebug               = "debug"
	OptDebugFile           = "debug-file"
)

// Extcap the protocol state machine. Interfaces and controls are
// registered before Run; Run parses the flags once, derives the step
// and either prints descriptors or hands control to the listener.
type Extcap struct {
	name       string
	step       Step
	flags      *pflag.FlagSet
	appArgs    map[string]struct{}
	version    string
	helpPage   string
	wsVersion  string
	interfaces []*entities.Interface
	controls   []*entities.Control
	reloadOpt  bool
	ifcDebug   bool
	control    bool
	out        io.Writer
}

// New
// creates the state machine for a provider with the given name and
// declares the fixed protocol flags
func New(name string) *Extcap {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	fs.String(OptExtcapVersion, view.EmptyString, "Wireshark version")
	fs.Bool(OptExtcapInterfaces, false, "List the extcap interfaces")
	fs.String(OptExtcapInterface, view.EmptyString, "Specify the extcap interface")
	fs.Bool(OptExtcapDlts, false, "List the DLTs")
	fs.Bool(OptExtcapConfig, false, "List the additional configuration for an interface")
	fs.Bool(OptCapture, false, "Run the capture")
	fs.String(OptExtcapCaptureFilter, view.EmptyString, "The capture filter")
	fs.String(OptFifo, view.EmptyString, "Dump data to file or fifo")
	return &Extcap{
		name:    name,
		flags:   fs,
		appArgs: make(map[string]struct{}),
		out:     os.Stdout,
	}
}

// Name provider name
func (ex *Extcap) Name() string {
	return ex.name
}

// SetVersion
// sets the provider version printed on the extcap descriptor line
func (ex *Extcap) SetVersion(version string) {
	ex.version = version
}

// SetHelp
// sets the help URL printed on the extcap descriptor line
func (ex *Extcap) SetHelp(helpPage string) {
	ex.helpPage = helpPage
}

// SetOutput
// redirects the descriptor output, standard output by default
func (ex *Extcap) SetOutput(w io.Writer) {
	ex.out = w
}

// Step the derived protocol step, valid after Run started
func (ex *Extcap) Step() Step {
	return ex.step
}

// WiresharkVersion the host version passed via --extcap-version
func (ex *Extcap) WiresharkVersion() string {
	return ex.wsVersion
}

// Present
// reports whether the named flag was supplied on the command line
func (ex *Extcap) Present(name string) bool {
	f := ex.flags.Lookup(name)
	return f != nil && f.Changed
}

// Value
// returns the parsed value of the named flag, empty when unknown
func (ex *Extcap) Value(name string) string {
	f := ex.flags.Lookup(name)
	if f == nil {
		return view.EmptyString
	}
	return f.Value.String()
}

// ValueOr
// returns the parsed value, or def when the flag was not supplied
func (ex *Extcap) ValueOr(name, def string) string {
	if !ex.Present(name) {
		return def
	}
	return ex.Value(name)
}

// AddInterface
// registers a capture interface. Declared arguments project into CLI
// flags; a reloadable argument pulls in --extcap-reload-option once,
// debug support pulls in --debug/--debug-file once per process.
func (ex *Extcap) AddInterface(ifc *entities.Interface) {
	if ifc.HasReloadableArg() {
		ex.configReloadOpt()
	}
	if ifc.HasDebug() {
		ex.configDebug()
	}
	for _, a := range ifc.Args() {
		ex.configArg(a)
	}
	ex.interfaces = append(ex.interfaces, ifc)
}

// AddControl
// registers a toolbar control; the first control pulls in the two
// control pipe flags
func (ex *Extcap) AddControl(c *entities.Control) {
	ex.configControl()
	c.SetNumber(len(ex.controls))
	ex.controls = append(ex.controls, c)
}

// InterfaceByName
// finds a registered interface, nil when absent
func (ex *Extcap) InterfaceByName(name string) *entities.Interface {
	for _, ifc := range ex.interfaces {
		if ifc.Name() == name {
			return ifc
		}
	}
	return nil
}

// configArg
// projects one argument into a CLI flag, idempotent by name
func (ex *Extcap) configArg(a *entities.Arg) {
	if _, ok := ex.appArgs[a.Name()]; ok {
		return
	}
	if a.TakesValue() {
		ex.flags.String(a.Name(), view.EmptyString, a.Display())
	} else {
		ex.flags.Bool(a.Name(), false, a.Display())
	}
	ex.appArgs[a.Name()] = struct{}{}
}

// configReloadOpt
// declares the shared reload flag once
func (ex *Extcap) configReloadOpt() {
	if ex.reloadOpt {
		return
	}
	ex.reloadOpt = true
	ex.flags.String(OptExtcapReloadOption, view.EmptyString, "Reload values for the given argument")
	ex.appArgs[OptExtcapReloadOption] = struct{}{}
}

// configDebug
// declares the shared debug flags once
func (ex *Extcap) configDebug() {
	if ex.ifcDebug {
		return
	}
	ex.ifcDebug = true
	ex.flags.Bool(OptDebug, false, "Print additional messages")
	ex.flags.String(OptDebugFile, view.EmptyString, "Print debug messages to file")
	ex.appArgs[OptDebug] = struct{}{}
	ex.appArgs[OptDebugFile] = struct{}{}
}

// configControl
// declares the two control pipe flags once
func (ex *Extcap) configControl() {
	if ex.control {
		return
	}
	ex.control = true
	ex.flags.String(OptExtcapControlIn, view.EmptyString, "The pipe for control messages from toolbar")
	ex.flags.String(OptExtcapControlOut, view.EmptyString, "The pipe for control messages to toolbar")
	ex.appArgs[OptExtcapControlIn] = struct{}{}
	ex.appArgs[OptExtcapControlOut] = struct{}{}
}

// Run
// parses the process arguments and executes the derived step
func (ex *Extcap) Run(listener Listener) error {
	return ex.RunArgs(os.Args[1:], listener)
}

// RunArgs
// like Run with explicit arguments
func (ex *Extcap) RunArgs(args []string, listener Listener) error {
	ifc, done, err := ex.runTillCapture(args, listener)
	if err != nil || done {
		return err
	}
	return ex.capture(listener, ifc)
}

// runTillCapture
// everything before the capture step: parse, derive, validate, print
func (ex *Extcap) runTillCapture(args []string, listener Listener) (*entities.Interface, bool, error) {
	if err := ex.flags.Parse(args); err != nil {
		return nil, true, exception.FlagParse(err)
	}
	if ex.Present(OptExtcapInterfaces) && ex.Present(OptExtcapInterface) {
		return nil, true, exception.FlagParsef("--%s conflicts with --%s", OptExtcapInterface, OptExtcapInterfaces)
	}

	// step derivation, fixed precedence
	switch {
	case ex.Present(OptExtcapInterfaces):
		ex.step = Step{Kind: StepQueryIfaces}
	case ex.Present(OptExtcapDlts):
		ex.step = Step{Kind: StepQueryDlts}
	case ex.Present(OptExtcapConfig):
		ex.step = Step{Kind: StepConfigIface, Reload: ex.Present(OptExtcapReloadOption)}
	case ex.Present(OptCapture):
		ctrl := ex.Present(OptExtcapControlIn) && ex.Present(OptExtcapControlOut)
		ex.step = Step{Kind: StepCapture, CtrlPipe: ctrl}
	default:
		ex.step = Step{Kind: StepNone}
	}

	debug := ex.Present(OptDebug)
	debugFile := strings.TrimSpace(ex.Value(OptDebugFile))
	if li, ok := listener.(LogInitializer); ok {
		li.InitLog(ex, debug, debugFile)
	} else {
		initLog(debug, debugFile)
	}
	log.Debugf("=======================")
	log.Debugf("log initialized debug=%t debug_file=%s", debug, debugFile)
	log.Debugf("step = %s", ex.step)

	ex.wsVersion = ex.Value(OptExtcapVersion)
	log.Debugf("Wireshark version '%s'", ex.wsVersion)

	if iu, ok := listener.(InterfaceUpdater); ok {
		iu.UpdateInterfaces(ex)
	}

	if ex.step.Kind == StepQueryIfaces {
		log.Debugf("list of interfaces required")
		ex.printVersion()
		for _, ifc := range ex.interfaces {
			ifc.PrintIface(ex.out)
		}
		for _, c := range ex.controls {
			c.PrintControl(ex.out)
		}
		return nil, true, nil
	}

	if err := ex.validateRelations(); err != nil {
		return nil, true, err
	}

	if !ex.Present(OptExtcapInterface) {
		return nil, true, exception.MissingInterface()
	}
	ifname := ex.Value(OptExtcapInterface)
	ifc := ex.InterfaceByName(ifname)
	if ifc == nil {
		return nil, true, exception.InvalidInterface(ifname)
	}
	log.Debugf("interface = %s", ifc.Name())

	switch ex.step.Kind {
	case StepQueryDlts:
		log.Debugf("interface DLTs required")
		ifc.PrintDltList(ex.out)
		return nil, true, nil
	case StepConfigIface:
		if ex.step.Reload {
			ex.reloadOption(listener, ifc, ex.Value(OptExtcapReloadOption))
		} else {
			log.Debugf("interface config required")
			ifc.PrintArgList(ex.out)
		}
		return nil, true, nil
	case StepCapture:
		return ifc, false, nil
	}
	return nil, true, exception.UnknownStep()
}

// validateRelations
// cross-flag dependencies the declarative layer cannot express.
// Skipped for the interface query, which always wins the precedence.
func (ex *Extcap) validateRelations() error {
	actions := 0
	for _, name := range []string{OptExtcapDlts, OptExtcapConfig, OptCapture} {
		if ex.Present(name) {
			actions++
		}
	}
	if actions > 1 {
		return exception.FlagParsef("only one of --%s, --%s and --%s may be used",
			OptExtcapDlts, OptExtcapConfig, OptCapture)
	}
	if ex.Present(OptCapture) && !ex.Present(OptFifo) {
		return exception.FlagParsef("--%s requires --%s", OptCapture, OptFifo)
	}
	for _, name := range []string{OptFifo, OptExtcapCaptureFilter, OptExtcapControlIn, OptExtcapControlOut} {
		if ex.Present(name) && !ex.Present(OptCapture) {
			return exception.FlagParsef("--%s requires --%s", name, OptCapture)
		}
	}
	if ex.Present(OptExtcapReloadOption) && !ex.Present(OptExtcapConfig) {
		return exception.FlagParsef("--%s requires --%s", OptExtcapReloadOption, OptExtcapConfig)
	}
	return nil
}

// reloadOption
// reload flow for one named argument. An unknown name is logged and
// the step does nothing, the host has no way to consume an error here.
func (ex *Extcap) reloadOption(listener Listener, ifc *entities.Interface, argName string) {
	log.Debugf("interface config reload required for '%s' argument", argName)
	arg := ifc.ArgByName(argName)
	if arg == nil {
		log.Warnf("reload option arg '%s' not available for interface '%s'", argName, ifc.Name())
		return
	}
	if r, ok := listener.(OptionReloader); ok {
		if vals := r.ReloadOption(ex, ifc, arg); vals != nil {
			log.Debugf("reload option arg '%s' for interface '%s' has got %d values",
				argName, ifc.Name(), len(vals))
			arg.ReplaceVals(vals)
		} else {
			log.Debugf("reload option arg '%s' for interface '%s' nothing has changed",
				argName, ifc.Name())
		}
	}
	arg.PrintArg(ex.out)
}

// capture
// the capture step: optional control pipe, pcap sink, listener loop
func (ex *Extcap) capture(listener Listener, ifc *entities.Interface) error {
	fifo := ex.Value(OptFifo)
	log.Debugf("capture required fifo=%s capture_filter=%s", fifo, ex.Value(OptExtcapCaptureFilter))

	var cp *control_pipe.ControlPipe
	if ex.step.CtrlPipe {
		ctrlIn := ex.Value(OptExtcapControlIn)
		ctrlOut := ex.Value(OptExtcapControlOut)
		log.Debugf("capture with control in=%s out=%s", ctrlIn, ctrlOut)
		c, err := control_pipe.Open(ctrlIn, ctrlOut)
		if err != nil {
			log.Warnf("unable to open control pipes in=%s out=%s: %v", ctrlIn, ctrlOut, err)
		} else {
			cp = c
		}
	}

	hdr := pcap_sink.DefaultHeader(ifc.Dlt())
	if hp, ok := listener.(HeaderProvider); ok {
		hdr = hp.CaptureHeader(ex, ifc)
	}
	sink, err := pcap_sink.NewSink(fifo, hdr)
	if err != nil {
		return err
	}
	defer func() {
		_ = sink.Close()
	}()

	var pipes *control_pipe.CtrlPipes
	if cp != nil {
		p, err := cp.Start()
		if err != nil {
			return fmt.Errorf("control pipe start failed: %w", err)
		}
		pipes = &p
	}
	log.Debugf("capture starting, control pipes attached: %t", pipes != nil)
	captureErr := listener.Capture(ex, ifc, sink, pipes)
	if cp != nil {
		_ = cp.Stop()
	}
	log.Debugf("capture finished: %v", captureErr)
	return exception.User(captureErr)
}

// printVersion
// renders the extcap version descriptor line
func (ex *Extcap) printVersion() {
	version := ex.version
	if version == view.EmptyString {
		version = view.UnknownVersion
	}
	_, _ = fmt.Fprintf(ex.out, "extcap {version=%s}", version)
	entities.PrintOptValue(ex.out, "help", ex.helpPage)
	_, _ = fmt.Fprintln(ex.out)
}

// initLog
// built-in log initialization: warnings only, --debug raises the
// level, --debug-file adds a rotated log file. Stdout belongs to the
// descriptor protocol, logging stays on stderr.
func initLog(debug bool, debugFile string) {
	logLevel := log.WarnLevel
	if debug {
		logLevel = log.DebugLevel
	}
	log.SetLevel(logLevel)
	log.SetFormatter(&prefixed.TextFormatter{
		DisableColors:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		ForceFormatting: true,
	})
	if debugFile != view.EmptyString {
		log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename: debugFile,
			MaxSize:  view.DebugLogFileMaxSizeMb,
		}))
	} else {
		log.SetOutput(os.Stderr)
	}
}
