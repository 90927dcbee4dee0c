package cluster

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aryankumar/podcleaner/internal/config"
	"github.com/aryankumar/podcleaner/internal/util"
	"golang.org/x/sync/errgroup"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
)

// ClientsetFactory builds a clientset from a REST config
type ClientsetFactory func(*rest.Config) (kubernetes.Interface, error)

// defaultClientsetFactory builds a real clientset
func defaultClientsetFactory(cfg *rest.Config) (kubernetes.Interface, error) {
	return kubernetes.NewForConfig(cfg)
}

// Fleet is the read-only set of clusters loaded in one run, kept in load order
type Fleet struct {
	clients  []*Client
	byName   map[string]*Client
	failures []error
}

// NewFleet builds a fleet from already connected clients, preserving their order.
// Clients with a duplicate name are ignored.
func NewFleet(clients ...*Client) *Fleet {
	f := &Fleet{
		clients: make([]*Client, 0, len(clients)),
		byName:  make(map[string]*Client, len(clients)),
	}
	for _, c := range clients {
		if c == nil {
			continue
		}
		if _, dup := f.byName[c.Name]; dup {
			continue
		}
		f.clients = append(f.clients, c)
		f.byName[c.Name] = c
	}
	return f
}

// Clients returns the loaded clients in load order
func (f *Fleet) Clients() []*Client {
	out := make([]*Client, len(f.clients))
	copy(out, f.clients)
	return out
}

// Names returns the loaded cluster names in load order
func (f *Fleet) Names() []string {
	names := make([]string, 0, len(f.clients))
	for _, c := range f.clients {
		names = append(names, c.Name)
	}
	return names
}

// Get returns the client for a cluster name
func (f *Fleet) Get(name string) (*Client, bool) {
	c, ok := f.byName[name]
	return c, ok
}

// Len returns the number of loaded clusters
func (f *Fleet) Len() int {
	return len(f.clients)
}

// Failures returns the per-file errors recorded while loading
func (f *Fleet) Failures() []error {
	out := make([]error, len(f.failures))
	copy(out, f.failures)
	return out
}

// Infos returns the metadata of every loaded cluster in load order
func (f *Fleet) Infos() []Info {
	infos := make([]Info, 0, len(f.clients))
	for _, c := range f.clients {
		infos = append(infos, c.Info)
	}
	return infos
}

// Loader turns a directory of credential files into a Fleet
type Loader struct {
	dir          string
	timeout      time.Duration
	parallel     int
	newClientset ClientsetFactory
	logger       *slog.Logger
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithTimeout sets the per-call timeout used for the probe and every later call
func WithTimeout(timeout time.Duration) LoaderOption {
	return func(l *Loader) {
		l.timeout = timeout
	}
}

// WithParallel bounds how many credential files are connected concurrently
func WithParallel(n int) LoaderOption {
	return func(l *Loader) {
		l.parallel = n
	}
}

// WithClientsetFactory replaces the clientset constructor (used by tests)
func WithClientsetFactory(factory ClientsetFactory) LoaderOption {
	return func(l *Loader) {
		l.newClientset = factory
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a credential loader for dir
func NewLoader(dir string, opts ...LoaderOption) *Loader {
	l := &Loader{
		dir:          dir,
		timeout:      DefaultCallTimeout,
		parallel:     5,
		newClientset: defaultClientsetFactory,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.parallel <= 0 {
		l.parallel = 1
	}
	l.logger = loggerOrDefault(l.logger)
	return l
}

// Load connects to every credential file in the directory.
// Files that fail to parse, connect or answer the probe are logged and skipped.
// Only an unusable directory is an error; zero loadable clusters yields an empty fleet.
func (l *Loader) Load(ctx context.Context) (*Fleet, error) {
	files, err := config.DiscoverCredentialFiles(l.dir)
	if err != nil {
		return nil, err
	}

	l.logger.Info("loading clusters", "dir", l.dir, "files", len(files))

	// Slots keep load order stable regardless of completion order
	clients := make([]*Client, len(files))
	var (
		mu       sync.Mutex
		failures []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.parallel)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			client, err := l.loadOne(gctx, file)
			if err != nil {
				l.logger.Error("failed to load cluster",
					"cluster", file.ClusterName,
					"file", file.Path,
					"error", err)
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
				return nil
			}
			clients[i] = client
			l.logger.Info("loaded cluster",
				"cluster", client.Name,
				"version", client.Info.Version,
				"server", client.Info.APIServer)
			return nil
		})
	}

	// Per-file errors never abort the group, so Wait only reports nil
	_ = g.Wait()

	fleet := NewFleet(clients...)
	fleet.failures = failures

	if loaded := fleet.Len(); loaded < countNonNil(clients) {
		l.logger.Warn("duplicate cluster names ignored", "loaded", loaded)
	}

	l.logger.Info("cluster loading completed",
		"total", len(files),
		"loaded", fleet.Len(),
		"failed", len(failures))

	return fleet, nil
}

// loadOne builds, probes and describes one cluster
func (l *Loader) loadOne(ctx context.Context, file config.CredentialFile) (*Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, util.WrapClusterError(file.ClusterName, "load", err)
	}

	kubeconfig := config.NewKubeconfigLoader(file.Path, l.timeout)

	restConfig, err := kubeconfig.BuildClientConfig()
	if err != nil {
		return nil, util.WrapClusterError(file.ClusterName, "load kubeconfig", err)
	}

	clientset, err := l.newClientset(restConfig)
	if err != nil {
		return nil, util.WrapClusterError(file.ClusterName, "create clientset", fmt.Errorf("failed to create clientset: %w", err))
	}

	client := NewClient(file.ClusterName, file.Path, clientset, restConfig, l.timeout)

	if err := client.Probe(ctx); err != nil {
		return nil, err
	}

	apiServer, ok := kubeconfig.APIServer()
	if !ok {
		l.logger.Warn("could not resolve API server address", "cluster", client.Name)
	}

	if _, err := client.FetchInfo(ctx, apiServer); err != nil {
		return nil, err
	}

	return client, nil
}

func countNonNil(clients []*Client) int {
	n := 0
	for _, c := range clients {
		if c != nil {
			n++
		}
	}
	return n
}
