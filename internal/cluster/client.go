package cluster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aryankumar/podcleaner/internal/util"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/version"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
)

// DefaultCallTimeout bounds a single API call when no timeout is configured
const DefaultCallTimeout = 30 * time.Second

// NewClient wraps a clientset for one cluster.
// timeout <= 0 falls back to DefaultCallTimeout.
func NewClient(name, path string, clientset kubernetes.Interface, restConfig *rest.Config, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}

	return &Client{
		Name:       name,
		Path:       path,
		Clientset:  clientset,
		RestConfig: restConfig,
		Info:       Info{Name: name},
		timeout:    timeout,
	}
}

// Probe performs the one-shot liveness check used at load time: a namespace list capped at one item
func (c *Client) Probe(ctx context.Context) error {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := c.Clientset.CoreV1().Namespaces().List(callCtx, metav1.ListOptions{Limit: 1}); err != nil {
		return util.WrapClusterError(c.Name, "probe", classify(err))
	}
	return nil
}

// FetchInfo reads the server version through the discovery API and records it in c.Info.
// The discovery client takes no context, so the call runs in a goroutine bounded by the call timeout.
func (c *Client) FetchInfo(ctx context.Context, apiServer string) (Info, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	type result struct {
		info *version.Info
		err  error
	}
	resultCh := make(chan result, 1)

	go func() {
		info, err := c.Clientset.Discovery().ServerVersion()
		resultCh <- result{info: info, err: err}
	}()

	select {
	case <-callCtx.Done():
		return Info{}, util.WrapClusterError(c.Name, "server version", fmt.Errorf("%w: %v", util.ErrTimeout, callCtx.Err()))
	case res := <-resultCh:
		if res.err != nil {
			return Info{}, util.WrapClusterError(c.Name, "server version", classify(res.err))
		}
		c.Info = Info{
			Name:      c.Name,
			Version:   res.info.GitVersion,
			BuildDate: res.info.BuildDate,
			Platform:  res.info.Platform,
			APIServer: apiServer,
		}
		return c.Info, nil
	}
}

// ListPods lists pods in namespace, or in all namespaces when namespace is empty.
// Failures are returned as ClusterUnavailable errors carrying the cluster name.
func (c *Client) ListPods(ctx context.Context, namespace string) ([]corev1.Pod, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	podList, err := c.Clientset.CoreV1().Pods(namespace).List(callCtx, metav1.ListOptions{})
	if err != nil {
		return nil, util.WrapClusterError(c.Name, "list pods", classify(err))
	}

	return podList.Items, nil
}

// DeletePod deletes a single pod. A pod that is already gone is reported as ErrPodNotFound.
func (c *Client) DeletePod(ctx context.Context, namespace, name string) error {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.Clientset.CoreV1().Pods(namespace).Delete(callCtx, name, metav1.DeleteOptions{})
	if err != nil {
		return util.WrapClusterError(c.Name, "delete pod "+util.PodRef(namespace, name), classify(err))
	}
	return nil
}

// Timeout returns the per-call timeout
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// String returns a string representation of the client
func (c *Client) String() string {
	return fmt.Sprintf("Client{Name: %s, Version: %s, APIServer: %s}", c.Name, c.Info.Version, c.Info.APIServer)
}

// classify maps API machinery errors onto the util sentinels while keeping the original cause
func classify(err error) error {
	switch {
	case apierrors.IsNotFound(err):
		return fmt.Errorf("%w: %v", util.ErrPodNotFound, err)
	case apierrors.IsForbidden(err), apierrors.IsUnauthorized(err):
		return fmt.Errorf("%w: %v", util.ErrPermissionDenied, err)
	case apierrors.IsTimeout(err), apierrors.IsServerTimeout(err), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", util.ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", util.ErrCancelled, err)
	default:
		return err
	}
}

// loggerOrDefault returns l or the default logger
func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
