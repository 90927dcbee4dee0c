package cluster

import (
	"time"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
)

// Info is the immutable metadata captured when a cluster is loaded
type Info struct {
	Name      string `json:"name" yaml:"name"`
	Version   string `json:"version" yaml:"version"`
	BuildDate string `json:"buildDate" yaml:"buildDate"`
	Platform  string `json:"platform" yaml:"platform"`
	APIServer string `json:"apiServer" yaml:"apiServer"`
}

// Client represents a live connection to a single Kubernetes cluster
type Client struct {
	// Name is derived from the credential file name and unique within a fleet
	Name string

	// Path is the credential file the client was built from
	Path string

	// Clientset is the Kubernetes client interface
	Clientset kubernetes.Interface

	// RestConfig is the underlying REST configuration (nil for injected clientsets)
	RestConfig *rest.Config

	// Info is the metadata fetched at load time
	Info Info

	// timeout bounds each API call made through this client
	timeout time.Duration
}

// Pod phases that mark a pod as a problem pod.
// Error is not a phase the API server assigns today but is kept for parity
// with clusters and tooling that report it.
const (
	PhaseError   corev1.PodPhase = "Error"
	PhaseUnknown corev1.PodPhase = corev1.PodUnknown
)

// ProblemPhases is the fixed set of phases the fleet engines act on
var ProblemPhases = map[corev1.PodPhase]bool{
	PhaseError:   true,
	PhaseUnknown: true,
}

// PodStatus returns the pod's phase as reported in problem pod records
func PodStatus(pod *corev1.Pod) string {
	return string(pod.Status.Phase)
}

// IsProblemPod reports whether a pod's phase is Error or Unknown.
// Pod and container reasons are ignored: a Running pod with a failed sidecar
// is not a problem pod, and an Unknown pod stays one whatever its reason.
func IsProblemPod(pod *corev1.Pod) bool {
	return ProblemPhases[pod.Status.Phase]
}
