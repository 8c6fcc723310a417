package storage

import (
	"errors"
	"os"

	"github.com/imgpipe/images-ms-go/internal/usecase/pipeline"
)

// mapFsErr translates filesystem errors to the pipeline taxonomy. A size-cap
// violation surfacing through a staged copy keeps its InvalidInputError
// identity; everything else is a storage failure.
func mapFsErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var invalid *pipeline.InvalidInputError
	if errors.As(err, &invalid) {
		return err
	}
	if os.IsNotExist(err) {
		return pipeline.ErrArtifactNotFound
	}
	return &pipeline.StorageError{Op: op, Err: err}
}
