package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path"
	"strings"

	"datacatalog/adapters/objectstore"
	"datacatalog/internal/errors"
)

// input is a file ready for analysis and the name its asset should default to
type input struct {
	path    string
	display string
	cleanup func()
}

// resolveInput turns a command argument into a local file. Object references
// ("s3://bucket/key", or any key when --bucket is set) are downloaded to a
// temporary file that cleanup removes.
func (c *cli) resolveInput(ctx context.Context, arg string) (*input, error) {
	if c.bucket == "" && !strings.HasPrefix(arg, "s3://") {
		return &input{path: arg, display: arg, cleanup: func() {}}, nil
	}

	if c.container.Objects == nil {
		return nil, errors.ConfigInvalid("object store is not configured (set OBJECT_STORE_ENDPOINT)")
	}

	bucket, key := c.bucket, strings.TrimPrefix(arg, "/")
	if c.bucket == "" {
		var err error
		bucket, key, err = objectstore.ParseObjectURL(arg, c.container.Config.ObjectStore.DefaultBucket)
		if err != nil {
			return nil, err
		}
	}

	localPath, err := c.container.Objects.Fetch(ctx, bucket, key, os.TempDir())
	if err != nil {
		return nil, err
	}
	return &input{
		path:    localPath,
		display: path.Base(key),
		cleanup: func() { os.Remove(localPath) },
	}, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
