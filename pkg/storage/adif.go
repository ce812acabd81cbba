package storage

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ReadADIF parses an ADIF log file into records. Fields it does not know
// are skipped; records missing a callsign, date or time are dropped.
func ReadADIF(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ADIF file: %w", err)
	}

	var records []Record
	fields := map[string]string{}

	rest := string(data)
	for {
		start := strings.IndexByte(rest, '<')
		if start < 0 {
			break
		}
		end := strings.IndexByte(rest[start:], '>')
		if end < 0 {
			break
		}
		tag := rest[start+1 : start+end]
		rest = rest[start+end+1:]

		name, length, ok := splitTag(tag)
		if !ok {
			if strings.EqualFold(tag, "eor") {
				if rec, ok := recordFromFields(fields); ok {
					records = append(records, rec)
				}
				fields = map[string]string{}
			}
			continue
		}
		if length > len(rest) {
			break
		}
		fields[strings.ToUpper(name)] = rest[:length]
		rest = rest[length:]
	}

	return records, nil
}

// splitTag splits "CALL:5" into its name and value length. Tags without
// a length, like eor and eoh, report false.
func splitTag(tag string) (string, int, bool) {
	parts := strings.Split(tag, ":")
	if len(parts) < 2 {
		return "", 0, false
	}
	length, err := strconv.Atoi(parts[1])
	if err != nil || length < 0 {
		return "", 0, false
	}
	return parts[0], length, true
}

func recordFromFields(fields map[string]string) (Record, bool) {
	rec := Record{
		RemoteCall: strings.TrimSpace(fields["CALL"]),
		LocalCall:  strings.TrimSpace(fields["STATION_CALLSIGN"]),
		Band:       strings.ToLower(strings.TrimSpace(fields["BAND"])),
		Mode:       normalizeADIFMode(fields["MODE"]),
		OpName:     strings.TrimSpace(fields["NAME"]),
		RemoteGrid: strings.TrimSpace(fields["GRIDSQUARE"]),
		LocalGrid:  strings.TrimSpace(fields["MY_GRIDSQUARE"]),
	}
	if rec.RemoteCall == "" {
		return Record{}, false
	}

	ts, err := time.Parse("20060102 150405", fields["QSO_DATE"]+" "+padTime(fields["TIME_ON"]))
	if err != nil {
		return Record{}, false
	}
	rec.Time = ts.UTC()

	if f, err := strconv.ParseFloat(fields["FREQ"], 64); err == nil {
		rec.FreqMHz = f
	}
	if v, err := strconv.Atoi(strings.TrimSpace(fields["RST_SENT"])); err == nil {
		rec.RSTS = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(fields["RST_RCVD"])); err == nil {
		rec.RSTR = v
	}
	return rec, true
}

// padTime accepts both HHMM and HHMMSS time-on values.
func padTime(t string) string {
	t = strings.TrimSpace(t)
	if len(t) == 4 {
		return t + "00"
	}
	return t
}

// normalizeADIFMode folds ADIF modes into the set the log accepts.
func normalizeADIFMode(mode string) string {
	switch strings.ToUpper(strings.TrimSpace(mode)) {
	case "USB", "LSB", "SSB":
		return "SSB"
	case "CW":
		return "CW"
	case "FT8":
		return "FT8"
	case "FT4":
		return "FT4"
	case "AM":
		return "AM"
	case "FM", "NFM":
		return "FM"
	case "MFSK", "JS8":
		return "MFSK"
	default:
		return ""
	}
}
