package proteinnet

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Record a ProteinNet record
type Record struct {
	StructureID string
	ModelID     int
	ChainID     string
	Primary     string
	Mask        string
}

// PDBID returns the structure ID normalized as lowercase.
func (r *Record) PDBID() string {
	return strings.ToLower(r.StructureID)
}

// parseID splits a ProteinNet ID of the form 1ABC_1_A. ASTRAL
// domain IDs (two parts) are reported with ok == false.
func parseID(id string) (rec *Record, ok bool, err error) {
	// Validation and test sets prefix IDs with a class, e.g. 10#1ABC_1_A
	if i := strings.LastIndex(id, "#"); i >= 0 {
		id = id[i+1:]
	}
	parts := strings.Split(id, "_")
	switch len(parts) {
	case 3:
		modelID, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, false, fmt.Errorf("failed to parse model ID '%v': %v", parts[1], err)
		}
		return &Record{
			StructureID: parts[0],
			ModelID:     int(modelID),
			ChainID:     parts[2],
		}, true, nil
	case 2:
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("malformed ID format '%v'", id)
	}
}

// ReadRecords streams records from r to results until the input is
// exhausted or ctx is done. results is closed on return.
func ReadRecords(
	ctx context.Context,
	r io.Reader,
	results chan<- *Record,
) error {
	defer close(results)
	scanner := bufio.NewScanner(r)
	// Tertiary lines are long
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	var next *Record
	emit := func() error {
		if next == nil {
			return nil
		}
		if got, expected := len(next.Mask), len(next.Primary); next.Mask != "" && got != expected {
			return fmt.Errorf("%s: mask length (got %v, expected %v)", next.StructureID, got, expected)
		}
		select {
		case results <- next:
			next = nil
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "[ID]":
			if err := emit(); err != nil {
				return err
			}
			if !scanner.Scan() {
				return fmt.Errorf("expected ID")
			}
			rec, ok, err := parseID(strings.TrimSpace(scanner.Text()))
			if err != nil {
				return err
			}
			if ok {
				next = rec
			}
		case "[PRIMARY]":
			if next != nil {
				if !scanner.Scan() {
					return fmt.Errorf("expected primary sequence")
				}
				next.Primary = strings.TrimSpace(scanner.Text())
			}
		case "[MASK]":
			if next != nil {
				if !scanner.Scan() {
					return fmt.Errorf("expected mask")
				}
				next.Mask = strings.TrimSpace(scanner.Text())
			}
		case "":
			if err := emit(); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan: %v", err)
	}
	return emit()
}

// ReadAll collects every record in r.
func ReadAll(ctx context.Context, r io.Reader) ([]*Record, error) {
	results := make(chan *Record)
	errc := make(chan error, 1)
	go func() {
		errc <- ReadRecords(ctx, r, results)
	}()
	var records []*Record
	for rec := range results {
		records = append(records, rec)
	}
	if err := <-errc; err != nil {
		return nil, err
	}
	return records, nil
}
