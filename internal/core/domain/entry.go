package domain

// JournalEntry is one parsed journal line. Line numbers are assigned
// by the server, start at 1, and increase by exactly 1 per physical
// line with no gaps. Entries are immutable once written.
type JournalEntry struct {
	LineNumber int
	Command    Command
}
