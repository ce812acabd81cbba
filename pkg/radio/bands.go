package radio

// Band describes an amateur band edge pair.
type Band struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	StartFreq int64  `json:"start_freq"`
	StopFreq  int64  `json:"stop_freq"`
}

// DefaultBands returns the built-in HF/VHF band plan.
func DefaultBands() []Band {
	return []Band{
		{ID: 1, Name: "160m", StartFreq: 1800000, StopFreq: 2000000},
		{ID: 2, Name: "80m", StartFreq: 3500000, StopFreq: 4000000},
		{ID: 3, Name: "40m", StartFreq: 7000000, StopFreq: 7300000},
		{ID: 4, Name: "30m", StartFreq: 10100000, StopFreq: 10150000},
		{ID: 5, Name: "20m", StartFreq: 14000000, StopFreq: 14350000},
		{ID: 6, Name: "17m", StartFreq: 18068000, StopFreq: 18168000},
		{ID: 7, Name: "15m", StartFreq: 21000000, StopFreq: 21450000},
		{ID: 8, Name: "12m", StartFreq: 24890000, StopFreq: 24990000},
		{ID: 9, Name: "10m", StartFreq: 28000000, StopFreq: 29700000},
		{ID: 10, Name: "6m", StartFreq: 50000000, StopFreq: 54000000},
		{ID: 11, Name: "2m", StartFreq: 144000000, StopFreq: 148000000},
	}
}
