package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aryankumar/podcleaner/internal/util"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/tools/clientcmd/api"
)

// UnknownAPIServer is reported when a credential file's API endpoint cannot be resolved
const UnknownAPIServer = "unknown"

// IsCredentialFile reports whether a directory entry name looks like a cluster credential file:
// not hidden, and either ending in .yaml/.yml (case-sensitive) or starting with k8s/K8S/K8s
func IsCredentialFile(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}

	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		return true
	}

	return strings.HasPrefix(name, "k8s") || strings.HasPrefix(name, "K8S") || strings.HasPrefix(name, "K8s")
}

// DiscoverCredentialFiles lists the credential files of dir, sorted by file name.
// A missing or unreadable directory is a configuration error; a directory
// without credential files yields an empty slice.
func DiscoverCredentialFiles(dir string) ([]CredentialFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, util.ConfigurationError("kubeconfig directory %q does not exist", dir)
		}
		return nil, util.ConfigurationError("cannot access kubeconfig directory %q: %v", dir, err)
	}
	if !info.IsDir() {
		return nil, util.ConfigurationError("kubeconfig path %q is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, util.ConfigurationError("cannot read kubeconfig directory %q: %v", dir, err)
	}

	files := make([]CredentialFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !IsCredentialFile(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		// Follow symlinks but skip anything that does not resolve to a regular file
		fi, err := os.Stat(path)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}

		files = append(files, CredentialFile{
			ClusterName: util.ClusterNameFromFile(entry.Name()),
			Path:        path,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files, nil
}

// KubeconfigLoader loads a single cluster credential file
type KubeconfigLoader struct {
	path         string
	timeout      time.Duration
	loadedConfig *api.Config
}

// NewKubeconfigLoader creates a loader for one credential file.
// timeout is applied to every request made with the resulting rest.Config.
func NewKubeconfigLoader(path string, timeout time.Duration) *KubeconfigLoader {
	return &KubeconfigLoader{
		path:    path,
		timeout: timeout,
	}
}

// Load parses the credential file
func (l *KubeconfigLoader) Load() (*api.Config, error) {
	if l.loadedConfig != nil {
		return l.loadedConfig, nil
	}

	cfg, err := clientcmd.LoadFromFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig %q: %w", l.path, err)
	}

	if len(cfg.Contexts) == 0 && len(cfg.Clusters) == 0 {
		return nil, fmt.Errorf("kubeconfig %q is empty", l.path)
	}

	l.loadedConfig = cfg
	return cfg, nil
}

// BuildClientConfig creates a rest.Config for the file's current context
func (l *KubeconfigLoader) BuildClientConfig() (*rest.Config, error) {
	cfg, err := l.Load()
	if err != nil {
		return nil, err
	}

	clientConfig := clientcmd.NewNonInteractiveClientConfig(*cfg, cfg.CurrentContext, &clientcmd.ConfigOverrides{}, nil)

	restConfig, err := clientConfig.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create client config from %q: %w", l.path, err)
	}

	if l.timeout > 0 {
		restConfig.Timeout = l.timeout
	}

	return restConfig, nil
}

// APIServer resolves the API endpoint of the file's current context.
// Lookup failure is not fatal: the second return value is false and
// UnknownAPIServer is returned.
func (l *KubeconfigLoader) APIServer() (string, bool) {
	cfg, err := l.Load()
	if err != nil {
		return UnknownAPIServer, false
	}

	ctxName := cfg.CurrentContext
	if ctxName == "" && len(cfg.Contexts) == 1 {
		for name := range cfg.Contexts {
			ctxName = name
		}
	}

	kctx, ok := cfg.Contexts[ctxName]
	if !ok || kctx == nil {
		return UnknownAPIServer, false
	}

	cluster, ok := cfg.Clusters[kctx.Cluster]
	if !ok || cluster == nil || cluster.Server == "" {
		return UnknownAPIServer, false
	}

	return cluster.Server, true
}

// Path returns the credential file path
func (l *KubeconfigLoader) Path() string {
	return l.path
}
