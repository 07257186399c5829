package frame

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"
)

// ReadCSV reads a comma-delimited file with a required header row into a
// frame.
func ReadCSV(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "frame: open %s", path)
	}
	defer file.Close()

	f, err := FromCSV(file)
	if err != nil {
		return nil, eris.Wrapf(err, "frame: read %s", path)
	}
	return f, nil
}

// FromCSV parses CSV from a reader. The first record is the header.
func FromCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("frame: csv has no header row")
	}
	if err != nil {
		return nil, eris.Wrap(err, "frame: read header")
	}

	f, err := New(header)
	if err != nil {
		return nil, err
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return f, nil
		}
		if err != nil {
			return nil, eris.Wrapf(err, "frame: read row %d", f.NumRows()+1)
		}
		if err := f.AppendRow(record); err != nil {
			return nil, err
		}
	}
}

// WriteCSV writes the frame as a comma-delimited file with a header row.
func WriteCSV(f *Frame, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "frame: create %s", path)
	}

	if err := ToCSV(f, file); err != nil {
		file.Close()
		return eris.Wrapf(err, "frame: write %s", path)
	}
	return eris.Wrapf(file.Close(), "frame: close %s", path)
}

// ToCSV writes the frame to a writer.
func ToCSV(f *Frame, w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(f.cols); err != nil {
		return eris.Wrap(err, "frame: write header")
	}
	for i := 0; i < f.NumRows(); i++ {
		row, err := f.Row(i)
		if err != nil {
			return err
		}
		if err := writer.Write(row); err != nil {
			return eris.Wrapf(err, "frame: write row %d", i)
		}
	}

	writer.Flush()
	return eris.Wrap(writer.Error(), "frame: flush")
}
