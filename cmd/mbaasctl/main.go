package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/docopt/docopt-go"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/mbaas/mbaas.go"
	"github.com/mbaas/mbaas.go/pkg/codec"
	"github.com/mbaas/mbaas.go/pkg/filestore"
	"github.com/mbaas/mbaas.go/pkg/logger"
	"github.com/mbaas/mbaas.go/pkg/models"
)

const Version = "0.1.0"

const usage = `mbaas control.

The endpoint defaults to $MBAAS_ENDPOINT and the cache dir to $MBAAS_CACHE_DIR.

Usage:
    mbaasctl get [options] <kind> <objectId>
    mbaasctl find [options] <kind> [--where=<json>] [--order=<fields>] [--skip=<n>] [--limit=<n>]
    mbaasctl count [options] <kind> [--where=<json>]
    mbaasctl save [options] <kind> [--id=<objectId>] <json>
    mbaasctl delete [options] <kind> <objectId>
    mbaasctl login [options] --user=<name> --password=<password>
    mbaasctl logout [options]
    mbaasctl whoami [options]
    mbaasctl -h | --help
    mbaasctl --version

Options:
    -h --help              Show this screen.
    --version              Show version.
    --endpoint=<url>       Service endpoint, e.g. https://mbaas.example.com/2013-09-01
    --cache_dir=<dir>      Where the current user and installation are kept.
    --cbor                 Keep the cache in CBOR instead of JSON.
    --verbose              Log requests to stderr.
    --where=<json>         Condition object, e.g. {"score":{"$gt":10}}
    --order=<fields>       Comma separated, prefix with - for descending.
    --skip=<n>
    --limit=<n>
    --id=<objectId>        Update this object instead of creating one.
    --user=<name>
    --password=<password>`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	parser := &docopt.Parser{HelpHandler: docopt.PrintHelpOnly}
	opts, err := parser.ParseArgs(usage, args, Version)
	if err != nil {
		return err
	}

	client, closeLog, err := newClient(opts)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := context.Background()
	kind, _ := opts.String("<kind>")

	if get_, _ := opts.Bool("get"); get_ {
		id, _ := opts.String("<objectId>")
		r := mbaas.NewRecord(kind)
		r.SetObjectID(id)
		if err := client.Fetch(ctx, r); err != nil {
			return err
		}
		return printJSON(out, r.ToMap())
	} else if find_, _ := opts.Bool("find"); find_ {
		q, err := buildQuery(client, kind, opts)
		if err != nil {
			return err
		}
		records, err := q.Find(ctx)
		if err != nil {
			return err
		}
		results := make([]any, 0, len(records))
		for _, r := range records {
			results = append(results, r.ToMap())
		}
		return printJSON(out, results)
	} else if count_, _ := opts.Bool("count"); count_ {
		q, err := buildQuery(client, kind, opts)
		if err != nil {
			return err
		}
		n, err := q.Count(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, n)
		return err
	} else if save_, _ := opts.Bool("save"); save_ {
		body, _ := opts.String("<json>")
		r, err := recordFromJSON(kind, body)
		if err != nil {
			return err
		}
		if id, _ := opts.String("--id"); id != "" {
			r.SetObjectID(id)
		}
		if err := client.Save(ctx, r); err != nil {
			return err
		}
		return printJSON(out, r.ToMap())
	} else if delete_, _ := opts.Bool("delete"); delete_ {
		id, _ := opts.String("<objectId>")
		r := mbaas.NewRecord(kind)
		r.SetObjectID(id)
		return client.Delete(ctx, r)
	} else if login_, _ := opts.Bool("login"); login_ {
		user, _ := opts.String("--user")
		password, _ := opts.String("--password")
		r, err := client.Login(ctx, user, password)
		if err != nil {
			return err
		}
		return printJSON(out, r.ToMap())
	} else if logout_, _ := opts.Bool("logout"); logout_ {
		return client.Logout(ctx)
	} else if whoami_, _ := opts.Bool("whoami"); whoami_ {
		r := client.CurrentUser()
		if r == nil {
			_, err := fmt.Fprintln(out, "not logged in")
			return err
		}
		return printJSON(out, r.ToMap())
	}
	return nil
}

// describe prefixes service errors a user can act on with a short hint.
func describe(err error) string {
	switch {
	case mbaas.IsNotFound(err):
		return "no such object: " + err.Error()
	case mbaas.IsAuthenticationFailed(err):
		return "wrong user name or password: " + err.Error()
	case mbaas.IsDuplicated(err):
		return "already exists: " + err.Error()
	}
	return err.Error()
}

func newClient(opts docopt.Opts) (*mbaas.Client, func(), error) {
	endpoint, _ := opts.String("--endpoint")
	if endpoint == "" {
		endpoint = mbaas.GetEnvOrDefault(mbaas.EnvEndpoint, "")
	}
	if endpoint == "" {
		return nil, nil, fmt.Errorf("no endpoint: pass --endpoint or set %s", mbaas.EnvEndpoint)
	}

	cacheDir, _ := opts.String("--cache_dir")
	if cacheDir == "" {
		defaultDir := ""
		if dir, err := os.UserCacheDir(); err == nil {
			defaultDir = filepath.Join(dir, "mbaas")
		}
		cacheDir = mbaas.GetEnvOrDefault(mbaas.EnvCacheDir, defaultDir)
	}
	var files filestore.FileStore = filestore.NewMemory()
	if cacheDir != "" {
		disk, err := filestore.NewDisk(cacheDir)
		if err != nil {
			return nil, nil, err
		}
		files = disk
	}

	blobCodec := codec.JSON()
	if useCBOR, _ := opts.Bool("--cbor"); useCBOR {
		blobCodec = codec.CBOR()
	}

	level := zerolog.WarnLevel
	if verbose, _ := opts.Bool("--verbose"); verbose {
		level = zerolog.DebugLevel
	}
	logData, err := logger.NewBuild().FromBuffer(os.Stderr).WithLevel(level).Make()
	if err != nil {
		return nil, nil, err
	}
	closeLog := func() { _ = logData.Close() }

	client, err := mbaas.FromEndpointURLString(endpoint, mbaas.Options{
		FileStore: files,
		Codec:     blobCodec,
		Logger:    logger.NewZerolog(logData.Logger),
	})
	if err != nil {
		closeLog()
		return nil, nil, err
	}
	return client, closeLog, nil
}

func buildQuery(client *mbaas.Client, kind string, opts docopt.Opts) (*mbaas.Query, error) {
	q := client.NewQuery(kind)

	if where, _ := opts.String("--where"); where != "" {
		var raw map[string]any
		if err := codec.JSON().Unmarshal([]byte(where), &raw); err != nil {
			return nil, fmt.Errorf("invalid --where: %w", err)
		}
		conditions, err := models.ValuesOf(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid --where: %w", err)
		}
		for field, v := range conditions {
			q.WhereEqualTo(field, v)
		}
	}
	if order, _ := opts.String("--order"); order != "" {
		for _, field := range strings.Split(order, ",") {
			if name, desc := strings.CutPrefix(strings.TrimSpace(field), "-"); desc {
				q.OrderByDescending(name)
			} else {
				q.OrderByAscending(name)
			}
		}
	}
	if s, _ := opts.String("--skip"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid --skip: %w", err)
		}
		q.Skip(n)
	}
	if s, _ := opts.String("--limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid --limit: %w", err)
		}
		q.Limit(n)
	}
	return q, nil
}

func recordFromJSON(kind, body string) (*mbaas.Record, error) {
	var raw map[string]any
	if err := codec.JSON().Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("invalid object: %w", err)
	}
	values, err := models.ValuesOf(raw)
	if err != nil {
		return nil, err
	}
	r := mbaas.NewRecord(kind)
	for _, k := range sortedKeys(values) {
		r.Set(k, values[k])
	}
	return r, nil
}

func sortedKeys(m map[string]models.Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func printJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
