// Package cat implements the device side of the CI-V CAT protocol: frame
// reading, BCD frequency codec, command dispatch and reply emission. The
// engine runs on one goroutine for the lifetime of the process and shares
// the radio state with the UI through the radio.State owner; it takes no
// locks of its own.
package cat

import (
	"io"
	"sync"

	"github.com/db2zw/x6100-gui/pkg/logging"
	"github.com/db2zw/x6100-gui/pkg/radio"
)

// Tuning step codes understood by CmdTuningStep, in wire order.
var tuningSteps = []struct {
	code byte
	hz   int64
}{
	{0x00, 10},
	{0x01, 100},
	{0x02, 500},
	{0x03, 1000},
	{0x04, 5000},
	{0x05, 10000},
}

// Engine is the CAT protocol engine.
type Engine struct {
	port   io.ReadWriter
	state  *radio.State
	addr   byte
	reader *frameReader

	mu     sync.RWMutex
	status string
}

// New creates an engine talking on port with the given CI-V address.
// A nil port is allowed; Run then parks the engine in a degraded state
// instead of failing, so the rest of the device keeps working.
func New(port io.ReadWriter, state *radio.State, addr byte) *Engine {
	e := &Engine{
		port:   port,
		state:  state,
		addr:   addr,
		status: "starting",
	}
	if port != nil {
		e.reader = newFrameReader(port)
	}
	return e
}

// Status returns the engine health: "running", or a degraded reason.
func (e *Engine) Status() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status
}

func (e *Engine) setStatus(s string) {
	e.mu.Lock()
	e.status = s
	e.mu.Unlock()
}

// Run executes the read-dispatch-reply loop. It never returns; the owning
// process's exit is the only way to stop it. Callers start it exactly once
// on its own goroutine during device bring-up.
func (e *Engine) Run() {
	if e.port == nil {
		e.setStatus("degraded: serial port unavailable")
		logging.Error("cat", "serial port unavailable, CAT control disabled")
		select {}
	}

	e.setStatus("running")
	logging.Infof("cat", "CAT engine running, CI-V address 0x%02X", e.addr)

	for {
		size := e.reader.readFrame()
		if size >= MinFrameLen {
			e.handleFrame(size)
		}
	}
}

// handleFrame validates, echoes and dispatches one complete frame sitting
// in the reader buffer. Replies are rewritten into the same buffer.
func (e *Engine) handleFrame(size int) {
	frame := e.reader.buf[:]

	if frame[0] != FramePre || frame[1] != FramePre {
		logging.Errorf("cat", "incorrect frame, cmd %02X (len %d)", frame[idxCmd], size)
		return
	}

	// The bus expects every frame to be echoed before the reply
	e.sendFrame(size)
	e.prepareAnswer(frame)

	switch frame[idxCmd] {
	case CmdReadFreq:
		encodeBCD(frame[5:10], e.state.Frequency(e.state.ActiveVFO()), 10)
		e.sendFrame(11)

	case CmdReadMode:
		v := modeToWire(e.state.Mode(e.state.ActiveVFO()))

		// No independent filter selection; the filter slot mirrors the mode
		frame[5] = v
		frame[6] = v
		e.sendFrame(8)

	case CmdSetFreq:
		e.tune(decodeBCD(frame[5:10], 10))
		e.sendCode(CodeOK)

	case CmdSetMode:
		mode, ok := modeFromWire(frame[5], false)
		if !ok {
			logging.Warnf("cat", "unsupported mode %02X", frame[5])
			e.sendCode(CodeNG)
			break
		}
		e.state.SetMode(e.state.ActiveVFO(), mode)
		e.state.Notify()
		e.sendCode(CodeOK)

	case CmdSetVFO:
		switch frame[idxSub] {
		case SelVFOA:
			e.state.SetActiveVFO(radio.VFOA)
		case SelVFOB:
			e.state.SetActiveVFO(radio.VFOB)
		default:
			// Swap, equalize and dual-watch selectors are not supported
			logging.Warnf("cat", "unsupported VFO selector %02X", frame[idxSub])
			e.sendCode(CodeNG)
			return
		}
		e.state.Notify()
		e.sendCode(CodeOK)

	case CmdSplit:
		switch frame[5] {
		case FrameEnd:
			frame[5] = bool01(e.state.Split())
			e.sendFrame(7)
		case 0x00, 0x10:
			e.state.SetSplit(false)
			e.state.Notify()
			e.sendCode(CodeOK)
		case 0x01:
			e.state.SetSplit(true)
			e.state.Notify()
			e.sendCode(CodeOK)
		default:
			logging.Warnf("cat", "unsupported split setting %02X", frame[5])
			e.sendCode(CodeNG)
		}

	case CmdTuningStep:
		if frame[5] == FrameEnd {
			frame[5] = stepCode(e.state.FreqStep())
			e.sendFrame(7)
		} else if hz, ok := stepValue(frame[5]); ok {
			e.state.SetFreqStep(hz)
			e.sendCode(CodeOK)
		} else {
			logging.Warnf("cat", "unsupported tuning step %02X", frame[5])
			e.sendCode(CodeNG)
		}

	case CmdTransceiverID:
		if frame[5] == 0x00 {
			frame[6] = e.addr
			e.sendFrame(8)
		} else {
			e.sendCode(CodeNG)
		}

	case CmdPTT:
		if frame[5] != 0x00 {
			logging.Warnf("cat", "unsupported transmit subcommand %02X", frame[5])
			e.sendCode(CodeNG)
			break
		}
		if frame[6] == FrameEnd {
			frame[6] = bool01(e.state.PTT())
			e.sendFrame(8)
		} else {
			switch frame[6] {
			case 0:
				e.state.SetPTT(false)
				e.state.Notify()
			case 1:
				e.state.SetPTT(true)
				e.state.Notify()
			}
			frame[6] = CodeOK
			e.sendFrame(8)
		}

	case CmdSelFreq:
		if frame[6] == FrameEnd {
			encodeBCD(frame[6:11], e.state.Frequency(selToVFO(frame[5])), 10)
			e.sendFrame(12)
		} else {
			freq := decodeBCD(frame[6:11], 10)
			target := selToVFO(frame[5])

			e.state.SetFrequency(target, freq)
			if e.state.ActiveVFO() == target {
				e.tune(freq)
			}
			e.sendCode(CodeOK)
		}

	case CmdSelMode:
		vfo := e.state.ActiveVFO()
		if frame[5] != 0 {
			vfo = vfo.Other()
		}

		if frame[6] == FrameEnd {
			mode := e.state.Mode(vfo)
			frame[6] = modeToWire(mode)
			frame[7] = bool01(mode.IsData())
			frame[8] = 0x01
			e.sendFrame(10)
		} else {
			mode, ok := modeFromWire(frame[6], frame[7] != 0 && frame[7] != FrameEnd)
			if !ok {
				logging.Warnf("cat", "unsupported mode %02X", frame[6])
				e.sendCode(CodeNG)
				break
			}
			e.state.SetMode(vfo, mode)
			e.state.Notify()
			e.sendCode(CodeOK)
		}

	default:
		logging.Warnf("cat", "unsupported %02X:%02X (len %d)", frame[idxCmd], frame[idxSub], size)
		e.sendCode(CodeNG)
	}
}

// prepareAnswer readdresses the buffered frame at the original sender;
// the source slot always carries the device's own address.
func (e *Engine) prepareAnswer(frame []byte) {
	frame[idxDst] = frame[idxSrc]
	frame[idxSrc] = e.addr
}

// sendFrame forces the terminator into the last byte of the reply and
// transmits exactly size bytes from the start of the frame buffer.
func (e *Engine) sendFrame(size int) {
	frame := e.reader.buf[:size]
	frame[size-1] = FrameEnd

	if _, err := e.port.Write(frame); err != nil {
		logging.Errorf("cat", "serial write failed: %v", err)
	}
}

// sendCode emits the short 6-byte OK/NG acknowledgement.
func (e *Engine) sendCode(code byte) {
	e.reader.buf[idxCmd] = code
	e.sendFrame(6)
}

// tune applies a frequency change to the active VFO, activating the
// matching band, and refreshes the UI.
func (e *Engine) tune(freq int64) {
	e.state.TuneActive(freq)
	e.state.Notify()
}

// selToVFO resolves the 0x25 selector byte: zero addresses VFO A,
// anything else VFO B.
func selToVFO(sel byte) radio.VFO {
	if sel == 0x00 {
		return radio.VFOA
	}
	return radio.VFOB
}

func bool01(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func stepValue(code byte) (int64, bool) {
	for _, s := range tuningSteps {
		if s.code == code {
			return s.hz, true
		}
	}
	return 0, false
}

func stepCode(hz int64) byte {
	for _, s := range tuningSteps {
		if s.hz == hz {
			return s.code
		}
	}
	return 0x02
}
