// core/block/format.go
package block

// Format is the per-format strategy plugged into Producer and Reader.
type Format interface {
	// Name is a short label used in logs ("fasta", "fastq").
	Name() string

	// Lines is the fixed number of lines making up one record.
	Lines() int

	// Cut scans window backward and returns the length of its longest prefix
	// holding only whole records. The result is always > 0 on success.
	Cut(window []byte) (int, error)
}
