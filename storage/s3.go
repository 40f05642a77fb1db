// Package storage performs all interactions with the backing S3-compatible
// object store. Every operation takes the caller's credentials as an explicit
// argument; the process itself holds no standing credentials and nothing is
// cached between requests.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// metadataPageSize is the backing-store page size used by the metadata feed,
// independent of the caller's result limit.
const metadataPageSize = 50

// Credentials are the access keys supplied by one request. They are forwarded
// verbatim to the object store for each call and discarded when the request
// completes; they must never be logged or written to any durable store.
type Credentials struct {
	AccessKey string
	SecretKey string
}

// IsZero reports whether no credentials were supplied.
func (c Credentials) IsZero() bool {
	return c.AccessKey == "" && c.SecretKey == ""
}

// Object is a downloaded artifact. Body is an at-most-once stream; the caller
// owns closing it.
type Object struct {
	ContentType   string
	ContentLength int64
	Body          io.ReadCloser
}

// s3API is the slice of the S3 client used by the gateway.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Repository is the credential-scoped gateway to one S3 endpoint. One bucket
// holds one logical repository; the object key is the request path without its
// leading slash.
type S3Repository struct {
	client s3API
}

// NewS3Repository creates a gateway on top of an S3 client.
func NewS3Repository(client s3API) *S3Repository {
	return &S3Repository{client: client}
}

// ClientConfig configures the shared S3 client.
type ClientConfig struct {
	Region       string
	Endpoint     string // empty = AWS default endpoint resolution
	UsePathStyle bool   // required for MinIO and most S3 clones
}

// NewClient builds the process-wide S3 client. It carries anonymous
// credentials only; real credentials are injected per call. Request bodies
// are streamed, so payload signing is swapped for unsigned payloads.
func NewClient(ctx context.Context, cfg ClientConfig) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(aws.AnonymousCredentials{}),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
		o.APIOptions = append(o.APIOptions, v4.SwapComputePayloadSHA256ForUnsignedPayloadMiddleware)
	}), nil
}

// withCredentials injects the caller's keys into a single store call.
func withCredentials(c Credentials) func(*s3.Options) {
	return func(o *s3.Options) {
		o.Credentials = credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")
	}
}

// Upload streams body to the given key. contentLength must match the number
// of bytes body produces. When ifAbsent is set the store is asked to create
// the object only if the key does not exist yet, reported as ErrAlreadyExists
// otherwise; this backs the write-once guarantee for artifacts, while
// metadata uploads pass ifAbsent=false and overwrite freely.
func (r *S3Repository) Upload(ctx context.Context, creds Credentials, repository, key, contentType string, contentLength int64, body io.Reader, ifAbsent bool) error {
	if creds.IsZero() {
		return &NotAuthorizedError{Repository: repository}
	}

	in := &s3.PutObjectInput{
		Bucket:        aws.String(repository),
		Key:           aws.String(key),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(contentLength),
		Body:          body,
	}
	if ifAbsent {
		in.IfNoneMatch = aws.String("*")
	}

	_, err := r.client.PutObject(ctx, in, withCredentials(creds))
	return classify(err)
}

// Download fetches the object at key. The returned body is lazily consumed;
// cancelling ctx aborts the in-flight transfer.
func (r *S3Repository) Download(ctx context.Context, creds Credentials, repository, key string) (*Object, error) {
	if creds.IsZero() {
		return nil, &NotAuthorizedError{Repository: repository}
	}

	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(repository),
		Key:    aws.String(key),
	}, withCredentials(creds))
	if err != nil {
		return nil, classify(err)
	}

	return &Object{
		ContentType:   aws.ToString(out.ContentType),
		ContentLength: aws.ToInt64(out.ContentLength),
		Body:          out.Body,
	}, nil
}

// Head probes for the object at key without transferring its payload. It
// returns nil when the object exists and ErrNotFound when it does not.
func (r *S3Repository) Head(ctx context.Context, creds Credentials, repository, key string) error {
	if creds.IsZero() {
		return &NotAuthorizedError{Repository: repository}
	}

	_, err := r.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(repository),
		Key:    aws.String(key),
	}, withCredentials(creds))
	return classify(err)
}

// List emulates a directory listing over the flat key space using prefix and
// delimiter semantics. Common prefixes become directory entries (trailing
// slash), leaf objects become file entries; directories are emitted before
// files, each group in store order.
func (r *S3Repository) List(ctx context.Context, creds Credentials, repository, path string) ([]string, error) {
	if creds.IsZero() {
		return nil, &NotAuthorizedError{Repository: repository}
	}

	p := s3.NewListObjectsV2Paginator(r.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(repository),
		Prefix:    aws.String(toPrefix(path)),
		Delimiter: aws.String("/"),
	})

	var directories, files []string
	for p.HasMorePages() {
		page, err := p.NextPage(ctx, withCredentials(creds))
		if err != nil {
			return nil, classify(err)
		}
		for _, cp := range page.CommonPrefixes {
			directories = append(directories, lastSegment(strings.TrimSuffix(aws.ToString(cp.Prefix), "/"))+"/")
		}
		for _, obj := range page.Contents {
			files = append(files, lastSegment(aws.ToString(obj.Key)))
		}
	}

	return append(directories, files...), nil
}

// Metadata enumerates the absolute paths of top-level maven-metadata.xml
// objects, skipping snapshot metadata. startAfter is an exclusive resume
// point; limit caps the result count. The store is paginated in fixed-size
// pages regardless of limit.
func (r *S3Repository) Metadata(ctx context.Context, creds Credentials, repository, startAfter string, limit int) ([]string, error) {
	if creds.IsZero() {
		return nil, &NotAuthorizedError{Repository: repository}
	}

	in := &s3.ListObjectsV2Input{
		Bucket:  aws.String(repository),
		MaxKeys: aws.Int32(metadataPageSize),
	}
	if startAfter != "" {
		in.StartAfter = aws.String(startAfter)
	}

	p := s3.NewListObjectsV2Paginator(r.client, in)

	var paths []string
	for p.HasMorePages() {
		page, err := p.NextPage(ctx, withCredentials(creds))
		if err != nil {
			return nil, classify(err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !isMetadataKey(key) {
				continue
			}
			paths = append(paths, "/"+key)
			if limit > 0 && len(paths) >= limit {
				return paths, nil
			}
		}
	}

	return paths, nil
}

// isMetadataKey keeps release-line metadata only; the timestamped deployments
// under a -SNAPSHOT version carry their own metadata which is excluded here.
func isMetadataKey(key string) bool {
	return strings.HasSuffix(key, "/maven-metadata.xml") && !strings.HasSuffix(key, "-SNAPSHOT/maven-metadata.xml")
}

func lastSegment(key string) string {
	return key[strings.LastIndex(key, "/")+1:]
}

// toPrefix turns a request path into an S3 listing prefix: leading slash
// stripped, trailing slash ensured, repository root mapped to the empty
// prefix.
func toPrefix(path string) string {
	prefix := strings.TrimPrefix(path, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}
