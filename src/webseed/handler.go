// Package webseed serves a stored archive object with HTTP byte-range
// support, for deployments that keep the bucket private and need their
// own origin for BEP-19 web seeds rather than a public object URL.
//
// The range parsing and response headers are the same shape as the
// teacher's tar-index range server; only the backing store changed, from
// a local indexed tar file to a GetObject call against the bucket the
// archive was uploaded to.
package webseed

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Handler proxies GET requests for "/<key>" to Bucket, honoring Range.
type Handler struct {
	Client *s3.Client
	Bucket string
	Logger *log.Logger
}

func (h *Handler) logger() *log.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return log.Default()
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Handler(w, r)
}

func (h *Handler) Handler(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/")
	if key == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	ctx := r.Context()

	head, err := h.Client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(h.Bucket), Key: aws.String(key)})
	if err != nil {
		h.logger().Printf("webseed: head %s: %s", key, err)
		w.WriteHeader(http.StatusNotFound)
		return
	}
	size := aws.ToInt64(head.ContentLength)

	getInput := &s3.GetObjectInput{Bucket: aws.String(h.Bucket), Key: aws.String(key)}
	status := http.StatusOK
	w.Header().Set("Accept-Ranges", "bytes")

	start, end, hasRange := parseRange(r.Header.Get("Range"))
	if hasRange {
		if end == 0 || end > size {
			end = size
		}
		if start >= size {
			w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
			w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
			return
		}
		getInput.Range = aws.String(fmt.Sprintf("bytes=%d-%d", start, end-1))
		status = http.StatusPartialContent
		w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end-1, size))
		w.Header().Set("Content-Length", strconv.FormatInt(end-start, 10))
	} else {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}

	out, err := h.Client.GetObject(ctx, getInput)
	if err != nil {
		h.logger().Printf("webseed: get %s: %s", key, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	defer out.Body.Close()

	w.WriteHeader(status)
	if _, err := io.Copy(w, out.Body); err != nil {
		h.logger().Printf("webseed: copy %s: %s", key, err)
	}
}

// parseRange parses a single-range "Range: bytes=start-end" header. It
// reports ok=false for anything it can't confidently parse, in which
// case the caller should fall back to serving the whole object.
func parseRange(r string) (start, end int64, ok bool) {
	if r == "" {
		return 0, 0, false
	}
	pos := strings.Index(r, "=")
	if pos < 0 {
		return 0, 0, false
	}
	r = r[pos+1:]
	pos = strings.Index(r, "-")
	if pos < 0 {
		return 0, 0, false
	}
	bs, es := r[:pos], r[pos+1:]
	start, err := strconv.ParseInt(bs, 10, 64)
	if err != nil {
		return 0, 0, false
	}
	if es == "" {
		return start, 0, true
	}
	end, err = strconv.ParseInt(es, 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return start, end + 1, true
}
