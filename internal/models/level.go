package models

// Level is the academic level of a student or a course.
type Level string

const (
	P1  Level = "P1"
	P2  Level = "P2"
	P3  Level = "P3"
	B1  Level = "B1"
	B2  Level = "B2"
	B3  Level = "B3"
	A1  Level = "A1"
	A2  Level = "A2"
	A3  Level = "A3"
	MS  Level = "MS"
	PhD Level = "PhD"
)

var Levels = []Level{P1, P2, P3, B1, B2, B3, A1, A2, A3, MS, PhD}

func (l Level) Valid() bool {
	for _, v := range Levels {
		if l == v {
			return true
		}
	}
	return false
}
