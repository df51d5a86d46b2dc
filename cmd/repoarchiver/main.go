package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/pflag"

	"github.com/repocask/archiveforge/src/httpapi"
	"github.com/repocask/archiveforge/src/multipartsink"
	"github.com/repocask/archiveforge/src/pipeline"
	"github.com/repocask/archiveforge/src/registry"
	"github.com/repocask/archiveforge/src/webseed"
)

var (
	address      string
	prefix       string
	registryBase string
	registryAuth string
	bucket       string
	s3Endpoint   string
	s3AccessKey  string
	s3SecretKey  string
	webSeedBase   string
	webSeedPrefix string
	announceURL   string
	pieceLength   int
)

func init() {
	pflag.StringVar(&address, "listen", "127.0.0.1:9876", "ip:port to listen")
	pflag.StringVar(&prefix, "prefix", "/archive", "url path prefix")
	pflag.StringVar(&registryBase, "registry-base", "https://huggingface.co", "model registry base URL")
	pflag.StringVar(&registryAuth, "registry-token", "", "bearer token for the registry, if required")
	pflag.StringVar(&bucket, "bucket", "", "destination bucket for archives and torrents")
	pflag.StringVar(&s3Endpoint, "s3-endpoint", "", "S3-compatible endpoint URL (empty selects AWS default resolution)")
	pflag.StringVar(&s3AccessKey, "s3-access-key", "", "static access key (empty uses the default credential chain)")
	pflag.StringVar(&s3SecretKey, "s3-secret-key", "", "static secret key")
	pflag.StringVar(&webSeedBase, "web-seed-base", "", "public base URL archives are served from, used as the torrent web-seed")
	pflag.StringVar(&announceURL, "announce", "", "tracker URL written into torrents (never dialed)")
	pflag.IntVar(&pieceLength, "piece-length", pipeline.DefaultPieceLength, "torrent piece length in bytes")
	pflag.StringVar(&webSeedPrefix, "web-seed-prefix", "", "if set, serve archives directly from this path instead of relying on a public bucket URL")
}

func main() {
	pflag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	if bucket == "" {
		return fmt.Errorf("--bucket is required")
	}
	if webSeedBase == "" {
		return fmt.Errorf("--web-seed-base is required")
	}

	client, err := newS3Client()
	if err != nil {
		return fmt.Errorf("configuring s3 client: %w", err)
	}

	reg := registry.NewClient(registryBase)
	reg.Token = registryAuth

	p := &pipeline.Pipeline{
		Registry: reg,
		Store:    multipartsink.NewS3ObjectStore(client, bucket),
		Config: pipeline.Config{
			PieceLength: pieceLength,
			Announce:    announceURL,
			CreatedBy:   "repoarchiver",
			WebSeedBase: webSeedBase,
			Now:         time.Now,
		},
	}

	h := &httpapi.Handler{Pipeline: p}
	if webSeedPrefix == "" {
		return httpapi.Serve(address, prefix, h)
	}

	mux := http.NewServeMux()
	mux.Handle(prefix, h)
	mux.Handle(webSeedPrefix, http.StripPrefix(webSeedPrefix, &webseed.Handler{Client: client, Bucket: bucket}))
	return http.ListenAndServe(address, mux)
}

func newS3Client() (*s3.Client, error) {
	ctx := context.Background()
	opts := []func(*awsconfig.LoadOptions) error{}
	if s3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s3AccessKey, s3SecretKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s3Endpoint != "" {
			o.BaseEndpoint = aws.String(s3Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
