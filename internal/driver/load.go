package driver

import (
	"fmt"

	"bfi/internal/diag"
	"bfi/internal/pipeline"
	"bfi/internal/source"
)

// Unit is one loaded source file.
type Unit struct {
	FileSet *source.FileSet
	File    *source.File
	FileID  source.FileID
}

func loadUnit(p *phases, path string) (*Unit, error) {
	end := p.begin(pipeline.StageLoad)
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		end("", err)
		return nil, err
	}
	f := fs.Get(id)
	end(fmt.Sprintf("bytes=%d", len(f.Content)), nil)
	return &Unit{FileSet: fs, File: f, FileID: id}, nil
}

func loadFailure(bag *diag.Bag, err error) {
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: source.NoFile}, "failed to load file: "+err.Error()))
}
