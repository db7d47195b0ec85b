package addressbook

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"go.uber.org/multierr"

	"github.com/nicolasdeu/Tact/internal/adapters/storage"
	"github.com/nicolasdeu/Tact/internal/domain/record"
)

const csvExt = ".csv"

// ErrCorruptFile is returned when a book file does not have the expected layout.
var ErrCorruptFile = errors.New("corrupt address book file")

// CSVStore implements FlatStore with one CSV file per book under dir.
// Files start with record.Header; each following line is one contact with
// emails and phones joined by record.Separator.
type CSVStore struct {
	dir string
}

// Compile-time check that *CSVStore satisfies FlatStore.
var _ FlatStore = (*CSVStore)(nil)

// NewCSVStore creates a CSVStore rooted at dir. The directory is created on
// first save.
func NewCSVStore(dir string) *CSVStore {
	return &CSVStore{dir: dir}
}

// Path returns the file holding book.
func (s *CSVStore) Path(book string) string {
	return filepath.Join(s.dir, url.PathEscape(book)+csvExt)
}

// LoadFlat reads every contact record of book.
// PRE: none
// POST: Returns storage.ErrBookNotFound if the file does not exist
func (s *CSVStore) LoadFlat(_ context.Context, book string) (recs []record.Flat, err error) {
	f, err := os.Open(s.Path(book))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("address book %q: %w", book, storage.ErrBookNotFound)
	}
	if err != nil {
		return nil, err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = len(record.Header)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: missing header: %w", f.Name(), ErrCorruptFile)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", f.Name(), ErrCorruptFile, err)
	}
	if !slices.Equal(header, record.Header) {
		return nil, fmt.Errorf("%s: unexpected header %v: %w", f.Name(), header, ErrCorruptFile)
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %v", f.Name(), ErrCorruptFile, err)
		}
		recs = append(recs, record.Flat{
			Firstname:      row[0],
			Lastname:       row[1],
			MailingAddress: row[2],
			Emails:         row[3],
			Phones:         row[4],
		})
	}
	return recs, nil
}

// SaveFlat writes the header and recs to a temporary file, syncs it, and
// renames it over the book file.
// POST: on error the previous file is untouched and no temp file remains
func (s *CSVStore) SaveFlat(_ context.Context, book string, recs []record.Flat) (err error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, ".tact-*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(record.Header); err != nil {
		return err
	}
	for _, r := range recs {
		if err := w.Write(r.Fields()); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.Path(book))
}

// ListBooks returns the names of all books with a file under dir.
func (s *CSVStore) ListBooks(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, csvExt) {
			continue
		}
		book, err := url.PathUnescape(strings.TrimSuffix(name, csvExt))
		if err != nil {
			continue
		}
		names = append(names, book)
	}
	sort.Strings(names)
	return names, nil
}
