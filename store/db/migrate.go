package db

import (
	"bytes"
	"database/sql"
	"embed"
	"errors"
	"io"
	"io/fs"
	"text/template"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed schema/*.sql
var embedFiles embed.FS

// MigrateData is rendered into the schema templates.
type MigrateData struct {
	AmountPrecision int
	AmountScale     int
}

func DefaultMigrateData() MigrateData {
	return MigrateData{AmountPrecision: 38, AmountScale: 18}
}

// Migrate runs the postgres migrations embedded in schema/.
func Migrate(db *sql.DB, data MigrateData) error {
	d, err := iofs.New(&templateFS{
		data: data,
		FS:   embedFiles,
	}, "schema")
	if err != nil {
		return err
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", d, "postgres", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}

type templateFile struct {
	io.ReadCloser
	info *fileInfoWithSize
}

func (t *templateFile) Stat() (fs.FileInfo, error) {
	return t.info, nil
}

type templateFS struct {
	data any
	embed.FS
}

func (t *templateFS) Open(name string) (fs.File, error) {
	file, err := t.FS.Open(name)
	if err != nil {
		return nil, err
	}

	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	// directories are listed by iofs, only files are templated
	if info.IsDir() {
		return t.FS.Open(name)
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	buf, err := render(name, content, t.data)
	if err != nil {
		return nil, err
	}

	return &templateFile{
		ReadCloser: io.NopCloser(bytes.NewReader(buf.Bytes())),
		info:       &fileInfoWithSize{info, int64(buf.Len())},
	}, nil
}

func render(name string, content []byte, data any) (*bytes.Buffer, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}

	return &buf, nil
}

type fileInfoWithSize struct {
	fs.FileInfo
	size int64
}

func (f *fileInfoWithSize) Size() int64 {
	return f.size
}
