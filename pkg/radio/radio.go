// Package radio owns the live transceiver state shared by the UI and the
// CAT protocol engine. All access goes through one mutex; callers get
// short, non-blocking reads and writes and never hold the lock themselves.
package radio

import "sync"

// VFO identifies one of the two tunable channels.
type VFO int

const (
	VFOA VFO = iota
	VFOB
)

// String returns the display name of the VFO.
func (v VFO) String() string {
	if v == VFOB {
		return "B"
	}
	return "A"
}

// Other returns the opposite VFO.
func (v VFO) Other() VFO {
	if v == VFOA {
		return VFOB
	}
	return VFOA
}

// VFOState holds the per-VFO tuning state.
type VFOState struct {
	Freq int64
	Mode Mode
}

// Notifier receives fire-and-forget state-changed notifications, used to
// refresh the UI after the protocol engine mutates shared state.
type Notifier interface {
	Notify()
}

// Snapshot is a consistent copy of the radio state for status reporting.
type Snapshot struct {
	VFO      string `json:"vfo"`
	FreqA    int64  `json:"freq_a"`
	FreqB    int64  `json:"freq_b"`
	ModeA    string `json:"mode_a"`
	ModeB    string `json:"mode_b"`
	PTT      bool   `json:"ptt"`
	Split    bool   `json:"split"`
	FreqStep int64  `json:"freq_step"`
	Band     string `json:"band"`
}

// State is the process-wide radio state owner.
type State struct {
	mu       sync.RWMutex
	vfo      VFO
	vfoX     [2]VFOState
	ptt      bool
	split    bool
	freqStep int64
	band     Band
	bands    []Band
	notifier Notifier
}

// NewState creates the radio state with power-on defaults: VFO A active,
// both VFOs in USB, A at 14.000 MHz and B at 14.100 MHz.
func NewState(bands []Band, n Notifier) *State {
	s := &State{
		vfo:      VFOA,
		freqStep: 500,
		bands:    bands,
		notifier: n,
	}
	s.vfoX[VFOA] = VFOState{Freq: 14000000, Mode: ModeUSB}
	s.vfoX[VFOB] = VFOState{Freq: 14100000, Mode: ModeUSB}
	if band, ok := s.findBand(14000000); ok {
		s.band = band
	}
	return s
}

// Notify forwards a state-changed notification to the UI, if any.
// Callers invoke it after a mutation that changes displayed state.
func (s *State) Notify() {
	if s.notifier != nil {
		s.notifier.Notify()
	}
}

// ActiveVFO returns the currently selected VFO.
func (s *State) ActiveVFO() VFO {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vfo
}

// SetActiveVFO selects a VFO.
func (s *State) SetActiveVFO(v VFO) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vfo = v
}

// Frequency returns the frequency of the given VFO in Hz.
func (s *State) Frequency(v VFO) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vfoX[v].Freq
}

// SetFrequency sets the frequency of the given VFO in Hz.
func (s *State) SetFrequency(v VFO, freq int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vfoX[v].Freq = freq
}

// Mode returns the mode of the given VFO.
func (s *State) Mode(v VFO) Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vfoX[v].Mode
}

// SetMode sets the mode of the given VFO.
func (s *State) SetMode(v VFO, m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vfoX[v].Mode = m
}

// PTT returns the transmit state.
func (s *State) PTT() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ptt
}

// SetPTT sets the transmit state.
func (s *State) SetPTT(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ptt = on
}

// Split returns the split operation state.
func (s *State) Split() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.split
}

// SetSplit sets the split operation state.
func (s *State) SetSplit(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.split = on
}

// FreqStep returns the tuning step in Hz.
func (s *State) FreqStep() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.freqStep
}

// SetFreqStep sets the tuning step in Hz.
func (s *State) SetFreqStep(step int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.freqStep = step
}

// Band returns the currently active band.
func (s *State) Band() Band {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.band
}

// FindBand looks up the band containing freq.
func (s *State) FindBand(freq int64) (Band, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findBand(freq)
}

func (s *State) findBand(freq int64) (Band, bool) {
	for _, b := range s.bands {
		if freq >= b.StartFreq && freq <= b.StopFreq {
			return b, true
		}
	}
	return Band{}, false
}

// TuneActive tunes the active VFO to freq. If the frequency falls inside a
// configured band that band becomes the active one, matching the behavior of
// a frequency change made from the front panel.
func (s *State) TuneActive(freq int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if band, ok := s.findBand(freq); ok {
		s.band = band
	}
	s.vfoX[s.vfo].Freq = freq
}

// Snapshot returns a consistent copy of the whole state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		VFO:      s.vfo.String(),
		FreqA:    s.vfoX[VFOA].Freq,
		FreqB:    s.vfoX[VFOB].Freq,
		ModeA:    s.vfoX[VFOA].Mode.String(),
		ModeB:    s.vfoX[VFOB].Mode.String(),
		PTT:      s.ptt,
		Split:    s.split,
		FreqStep: s.freqStep,
		Band:     s.band.Name,
	}
}
