package competition

// Record represents one competition listed on the BJCP calendar
type Record struct {
	Name          string `json:"name"`
	JudgingDate   *Date  `json:"judging_date"`
	EntryDeadline *Date  `json:"entry_deadline"`
	Location      string `json:"location"`
}

// NewRecord creates a Record from the raw cell texts of a calendar row.
// Date texts that cannot be parsed leave the corresponding field nil.
func NewRecord(name, location, judgingText, deadlineText string) *Record {
	return &Record{
		Name:          name,
		JudgingDate:   ParseOptionalDate(judgingText),
		EntryDeadline: ParseOptionalDate(deadlineText),
		Location:      location,
	}
}
