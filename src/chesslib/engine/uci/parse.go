package uci

import (
	"strconv"
	"strings"
	"thechess/src/chesslib/engine"
)

// ParseInfo parses an "info ..." line. ok is false for lines that carry
// neither a score nor a principal variation (currmove, string, hashfull...).
func ParseInfo(line string) (info engine.AnalysisInfo, ok bool) {
	fld := strings.Fields(line)
	n := len(fld)
	hasScore := false
	for i := 0; i < n; i++ {
		switch fld[i] {
		case "string":
			// free text up to the end of line
			return info, false
		case "depth":
			if i+1 < n {
				info.Depth, _ = strconv.Atoi(fld[i+1])
				i++
			}
		case "nodes":
			if i+1 < n {
				info.Nodes, _ = strconv.ParseInt(fld[i+1], 10, 64)
				i++
			}
		case "nps":
			if i+1 < n {
				info.NPS, _ = strconv.ParseInt(fld[i+1], 10, 64)
				i++
			}
		case "time":
			if i+1 < n {
				info.TimeMs, _ = strconv.ParseInt(fld[i+1], 10, 64)
				i++
			}
		case "score":
			if i+2 < n {
				v, err := strconv.Atoi(fld[i+2])
				if err == nil {
					switch fld[i+1] {
					case "cp":
						info.ScoreCP = v
						info.MateIn = 0
						info.HasMate = false
						hasScore = true
					case "mate":
						info.MateIn = v
						info.HasMate = true
						hasScore = true
					}
				}
				i += 2
			}
		case "pv":
			// pv tag is always last
			if i+1 < n {
				info.UCIPV = append([]string(nil), fld[i+1:]...)
			}
			i = n
		default:
			// skip like "seldepth", "multipv", "lowerbound" etc
		}
	}
	return info, hasScore || len(info.UCIPV) > 0
}
