package multipartsink

import "context"

// Put stores all of data under key in one multipart upload: create, then
// FlushAndSeal with data as the tail. It is the sink-backed equivalent of a
// plain PutObject for small objects (the torrent metainfo file), kept on
// the same ObjectStore abstraction the archive sink uses rather than
// introducing a second upload path.
func Put(ctx context.Context, store ObjectStore, key, contentType string, data []byte) error {
	sink, err := NewSink(ctx, store, key, contentType, 0, 0)
	if err != nil {
		return err
	}
	return sink.FlushAndSeal(ctx, data)
}
