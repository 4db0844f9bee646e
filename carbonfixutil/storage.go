/*
Copyright © 2026 the CarbonFix authors.
This file is part of CarbonFix.

CarbonFix is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

CarbonFix is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with CarbonFix.  If not, see <http://www.gnu.org/licenses/>.
*/

package carbonfixutil

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/cenkalti/backoff"
	"github.com/google/go-cloud/blob"
	"github.com/google/go-cloud/blob/fileblob"
	"github.com/google/go-cloud/blob/gcsblob"
	"github.com/google/go-cloud/blob/s3blob"
	"github.com/google/go-cloud/gcp"
	"github.com/sirupsen/logrus"
)

// IsBlob returns whether the given filename represents a blob.
// (i.e., if it starts with `gs://`, 's3://', or 'file://').
func IsBlob(path string) bool {
	return strings.HasPrefix(path, "gs://") || strings.HasPrefix(path, "s3://") || strings.HasPrefix(path, "file://")
}

// isHTTP returns whether the given filename is a web address.
func isHTTP(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// splitBlob splits a blob location into its bucket and the key within
// the bucket. For 'file:///dir/name' locations the bucket is the
// directory holding the file.
func splitBlob(path string) (bucket, key string, err error) {
	url, err := url.Parse(path)
	if err != nil {
		return "", "", fmt.Errorf("carbonfixutil: parsing url '%s': %v", path, err)
	}
	if url.Scheme == "file" && url.Host == "" {
		return "file://" + filepath.Dir(url.Path), filepath.Base(url.Path), nil
	}
	return url.Scheme + "://" + url.Host, strings.TrimPrefix(url.Path, "/"), nil
}

// OpenBucket returns the blob storage bucket specified by bucketName,
// where bucketName must be in the format 'provider://name' where provider
// is the name of the storage provider and name is the name of the bucket.
// The currently accepted storage providers are "file" for a local
// directory (e.g., for testing), "gs" for Google Cloud Storage, and "s3"
// for AWS S3.
func OpenBucket(ctx context.Context, bucketName string) (*blob.Bucket, error) {
	url, err := url.Parse(bucketName)
	if err != nil {
		return nil, fmt.Errorf("carbonfixutil.OpenBucket: %v", err)
	}
	switch url.Scheme {
	case "file":
		return fileblob.NewBucket(url.Host + url.Path)
	case "gs":
		return gsBucket(ctx, url.Hostname())
	case "s3":
		return s3Bucket(ctx, url.Hostname())
	default:
		return nil, fmt.Errorf("carbonfixutil.OpenBucket: invalid provider %s", url.Scheme)
	}
}

func gsBucket(ctx context.Context, name string) (*blob.Bucket, error) {
	// See here for information on credentials:
	// https://cloud.google.com/docs/authentication/getting-started
	creds, err := gcp.DefaultCredentials(ctx)
	if err != nil {
		return nil, err
	}
	c, err := gcp.NewHTTPClient(gcp.DefaultTransport(), gcp.CredentialsTokenSource(creds))
	if err != nil {
		return nil, err
	}
	return gcsblob.OpenBucket(ctx, name, c)
}

// s3Bucket opens an s3 storage bucket. It assumes the following
// environment variables are set: AWS_REGION, AWS_ACCESS_KEY_ID, and
// AWS_SECRET_ACCESS_KEY.
func s3Bucket(ctx context.Context, name string) (*blob.Bucket, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-2"
	}
	c := &aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewEnvCredentials(),
	}
	s := session.Must(session.NewSession(c))
	return s3blob.OpenBucket(ctx, s, name)
}

// openInput opens the file at path, which can be a local file, a web
// address, or a blob storage location. Web requests are retried with
// exponential backoff.
func openInput(ctx context.Context, log logrus.FieldLogger, path string) (io.ReadCloser, error) {
	switch {
	case isHTTP(path):
		var resp *http.Response
		var permanent error
		err := backoff.RetryNotify(
			func() error {
				var err error
				resp, err = http.Get(path)
				if err != nil {
					return err
				}
				if resp.StatusCode >= 500 {
					resp.Body.Close()
					return fmt.Errorf("carbonfixutil: downloading %s: %s", path, resp.Status)
				}
				if resp.StatusCode != http.StatusOK {
					// Client errors won't be fixed by retrying.
					resp.Body.Close()
					permanent = fmt.Errorf("carbonfixutil: downloading %s: %s", path, resp.Status)
				}
				return nil
			},
			backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3),
			func(err error, d time.Duration) {
				log.WithError(err).Warnf("retrying in %v", d)
			},
		)
		if err != nil {
			return nil, err
		}
		if permanent != nil {
			return nil, permanent
		}
		return resp.Body, nil
	case IsBlob(path):
		bucketName, key, err := splitBlob(path)
		if err != nil {
			return nil, err
		}
		bucket, err := OpenBucket(ctx, bucketName)
		if err != nil {
			return nil, err
		}
		r, err := bucket.NewReader(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("carbonfixutil: opening '%s': %v", path, err)
		}
		return r, nil
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("carbonfixutil: opening '%s': %v", path, err)
		}
		return f, nil
	}
}

// uploader stages output files destined for blob storage in a
// temporary local directory.
type uploader struct {
	// files is a set of file path pairs. The first of each pair
	// is a local file path and the second is a blob storage
	// path where it should be uploaded to.
	files [][2]string
	dir   string
}

// maybeUpload checks whether the given output file path refers to
// a blob storage location. If it does, then a temporary file location
// is returned. The file will then be uploaded to blob storage when
// the upload method is run.
func (u *uploader) maybeUpload(path string) (string, error) {
	if !IsBlob(path) {
		return path, nil
	}
	if u.dir == "" {
		var err error
		u.dir, err = ioutil.TempDir("", "carbonfix")
		if err != nil {
			return "", fmt.Errorf("carbonfixutil: creating upload directory: %v", err)
		}
	}
	local := filepath.Join(u.dir, filepath.Base(path))
	u.files = append(u.files, [2]string{local, path})
	return local, nil
}

// upload copies the staged files to blob storage.
func (u *uploader) upload(ctx context.Context) error {
	for _, files := range u.files {
		if err := uploadFile(ctx, files[0], files[1]); err != nil {
			return err
		}
	}
	return nil
}

// cleanup removes the staging directory, if one was created.
func (u *uploader) cleanup() error {
	if u.dir == "" {
		return nil
	}
	return os.RemoveAll(u.dir)
}

func uploadFile(ctx context.Context, local, path string) error {
	r, err := os.Open(local)
	if err != nil {
		return fmt.Errorf("carbonfixutil: opening file '%s' for upload: %s", local, err)
	}
	defer r.Close()
	bucketName, key, err := splitBlob(path)
	if err != nil {
		return err
	}
	bucket, err := OpenBucket(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("carbonfixutil: opening bucket to upload file '%s': %s", path, err)
	}
	w, err := bucket.NewWriter(ctx, key, &blob.WriterOptions{})
	if err != nil {
		return fmt.Errorf("carbonfixutil: opening writer to upload file '%s': %s", path, err)
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("carbonfixutil: uploading file '%s' to '%s': %s", local, path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("carbonfixutil: uploading file '%s' to '%s': %s", local, path, err)
	}
	return nil
}
