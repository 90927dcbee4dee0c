package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aryankumar/podcleaner/internal/cli/app"
	"github.com/aryankumar/podcleaner/internal/cluster"
	"github.com/aryankumar/podcleaner/internal/util"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/version"
	fakediscovery "k8s.io/client-go/discovery/fake"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/fake"
	"k8s.io/client-go/rest"
	k8stesting "k8s.io/client-go/testing"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/tools/clientcmd/api"
)

// testEnv is a credential directory backed by fake clusters
type testEnv struct {
	dir  string
	sets map[string]*fake.Clientset
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("KUBECONFIG_DIR", "")
	t.Setenv("POD_CLEANER_KUBECONFIG_DIR", "")

	return &testEnv{
		dir:  t.TempDir(),
		sets: make(map[string]*fake.Clientset),
	}
}

// addCluster writes <name>.yaml pointing at https://<name>.example.com and backs it with a fake clientset
func (e *testEnv) addCluster(t *testing.T, name string, objects ...runtime.Object) *fake.Clientset {
	t.Helper()

	cfg := api.NewConfig()
	cfg.Clusters[name] = &api.Cluster{Server: fmt.Sprintf("https://%s.example.com", name), InsecureSkipTLSVerify: true}
	cfg.AuthInfos[name] = &api.AuthInfo{Token: "token-" + name}
	cfg.Contexts[name] = &api.Context{Cluster: name, AuthInfo: name}
	cfg.CurrentContext = name
	if err := clientcmd.WriteToFile(*cfg, filepath.Join(e.dir, name+".yaml")); err != nil {
		t.Fatalf("failed to write kubeconfig: %v", err)
	}

	cs := fake.NewSimpleClientset(objects...)
	cs.Discovery().(*fakediscovery.FakeDiscovery).FakedServerVersion = &version.Info{
		GitVersion: "v1.31.3",
		BuildDate:  "2024-11-20T00:00:00Z",
		Platform:   "linux/amd64",
	}
	e.sets[fmt.Sprintf("https://%s.example.com", name)] = cs
	return cs
}

func (e *testEnv) factory() cluster.ClientsetFactory {
	return func(cfg *rest.Config) (kubernetes.Interface, error) {
		cs, ok := e.sets[cfg.Host]
		if !ok {
			return nil, fmt.Errorf("no fake clientset for %s", cfg.Host)
		}
		return cs, nil
	}
}

// run executes the CLI with stdin and returns stdout
func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	a := app.New(strings.NewReader(stdin), out, &bytes.Buffer{})
	a.ClientsetFactory = e.factory()

	cmd := newRootCmd(a)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(append([]string{"--kubeconfig-dir", e.dir, "--no-color"}, args...))

	err := cmd.Execute()
	if cerr := a.Close(); cerr != nil {
		t.Fatalf("close failed: %v", cerr)
	}
	return out.String(), err
}

func testPod(namespace, name string, phase corev1.PodPhase) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:              name,
			Namespace:         namespace,
			CreationTimestamp: metav1.NewTime(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)),
		},
		Status: corev1.PodStatus{Phase: phase},
	}
}

func testErrorPod(namespace, name string) *corev1.Pod {
	return testPod(namespace, name, cluster.PhaseError)
}

func deleteCount(cs *fake.Clientset) int {
	n := 0
	for _, a := range cs.Actions() {
		if a.Matches("delete", "pods") {
			n++
		}
	}
	return n
}

func TestListPods(t *testing.T) {
	env := newTestEnv(t)
	env.addCluster(t, "alpha", testErrorPod("ns1", "p1"), testPod("ns1", "p2", corev1.PodRunning))
	env.addCluster(t, "beta")

	out, err := env.run(t, "", "list-pods")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"Problem Pod Summary", "alpha: 1 problem pod(s)", "p1", "Error", "beta: no problem pods"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "p2") {
		t.Errorf("running pod listed:\n%s", out)
	}
}

func TestListPodsJSONWithNamespace(t *testing.T) {
	env := newTestEnv(t)
	env.addCluster(t, "alpha", testErrorPod("ns1", "p1"), testErrorPod("ns2", "p2"))

	out, err := env.run(t, "", "list-pods", "-n", "ns2", "-o", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var report struct {
		Namespace string `json:"namespace"`
		Clusters  []struct {
			Cluster string `json:"cluster"`
			Pods    []struct {
				Name string `json:"name"`
			} `json:"pods"`
		} `json:"clusters"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if report.Namespace != "ns2" || len(report.Clusters) != 1 || len(report.Clusters[0].Pods) != 1 || report.Clusters[0].Pods[0].Name != "p2" {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestListPodsSkipsUnreachableCluster(t *testing.T) {
	env := newTestEnv(t)
	env.addCluster(t, "alpha", testErrorPod("ns1", "p1"))
	down := env.addCluster(t, "down")
	down.PrependReactor("list", "namespaces", func(k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, errors.New("connection refused")
	})

	out, err := env.run(t, "", "list-pods")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "alpha: 1 problem pod(s)") || strings.Contains(out, "down:") {
		t.Errorf("unreachable cluster should be skipped at load:\n%s", out)
	}
}

func TestCleanPodsDryRun(t *testing.T) {
	env := newTestEnv(t)
	cs := env.addCluster(t, "alpha", testErrorPod("ns1", "p1"), testErrorPod("ns1", "p2"))

	out, err := env.run(t, "", "clean-pods", "--dry-run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleteCount(cs) != 0 {
		t.Errorf("dry run issued %d deletes", deleteCount(cs))
	}
	if !strings.Contains(out, "would delete") || !strings.Contains(out, "Dry Run Summary") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCleanPodsDeclined(t *testing.T) {
	env := newTestEnv(t)
	cs := env.addCluster(t, "alpha", testErrorPod("ns1", "p1"))

	out, err := env.run(t, "n\n", "clean-pods")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "[y/N]") || !strings.Contains(out, "Cleanup cancelled") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if deleteCount(cs) != 0 {
		t.Errorf("declined cleanup issued %d deletes", deleteCount(cs))
	}
}

func TestCleanPodsConfirmed(t *testing.T) {
	env := newTestEnv(t)
	cs := env.addCluster(t, "alpha", testErrorPod("ns1", "p1"), testPod("ns1", "p2", corev1.PodRunning))
	env.addCluster(t, "beta")

	out, err := env.run(t, "yes\n", "clean-pods")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleteCount(cs) != 1 {
		t.Errorf("expected 1 delete, got %d", deleteCount(cs))
	}
	if !strings.Contains(out, "Deletion Summary") || !strings.Contains(out, "success") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCleanPodsPartialFailure(t *testing.T) {
	env := newTestEnv(t)
	cs := env.addCluster(t, "alpha", testErrorPod("ns1", "p1"), testErrorPod("ns1", "p2"))
	cs.PrependReactor("delete", "pods", func(action k8stesting.Action) (bool, runtime.Object, error) {
		if action.(k8stesting.DeleteAction).GetName() == "p2" {
			return true, nil, errors.New("admission webhook denied")
		}
		return false, nil, nil
	})

	out, err := env.run(t, "", "clean-pods", "-y", "-o", "yaml")
	if err == nil || !strings.Contains(err.Error(), "1 pod deletion(s) failed") {
		t.Fatalf("expected partial failure error, got %v", err)
	}
	for _, want := range []string{"total: 2", "success: 1", "failed: 1", "state: partial"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCleanPodsNothingToDo(t *testing.T) {
	env := newTestEnv(t)
	env.addCluster(t, "alpha", testPod("ns1", "p1", corev1.PodRunning))

	out, err := env.run(t, "", "clean-pods")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No pods to clean") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestClusterInfo(t *testing.T) {
	env := newTestEnv(t)
	env.addCluster(t, "alpha")

	out, err := env.run(t, "", "cluster-info", "-o", "yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"name: alpha", "version: v1.31.3", "apiServer: https://alpha.example.com", "platform: linux/amd64"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMissingCredentialDirectory(t *testing.T) {
	env := newTestEnv(t)
	env.dir = filepath.Join(env.dir, "missing")

	_, err := env.run(t, "", "list-pods")
	if !util.IsConfigurationError(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !strings.Contains(util.FriendlyError(err), "KUBECONFIG_DIR") {
		t.Errorf("friendly error should point at the directory setting: %s", util.FriendlyError(err))
	}
}

func TestEmptyCredentialDirectory(t *testing.T) {
	env := newTestEnv(t)
	if err := os.WriteFile(filepath.Join(env.dir, "README.md"), []byte("not a kubeconfig"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := env.run(t, "", "cluster-info")
	if !util.IsConfigurationError(err) || !strings.Contains(err.Error(), "no cluster credential files") {
		t.Fatalf("expected empty directory error, got %v", err)
	}
}

func TestNoClusterCouldBeLoaded(t *testing.T) {
	env := newTestEnv(t)
	for _, name := range []string{"down", "k8s-gone"} {
		cs := env.addCluster(t, name)
		cs.PrependReactor("list", "namespaces", func(k8stesting.Action) (bool, runtime.Object, error) {
			return true, nil, errors.New("connection refused")
		})
	}

	_, err := env.run(t, "", "list-pods")
	if !util.IsConfigurationError(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !strings.Contains(err.Error(), "none of the 2 credential files") || !strings.Contains(err.Error(), "(down, k8s-gone)") {
		t.Errorf("error should name the clusters that failed: %v", err)
	}
}

func TestInvalidOutputFormat(t *testing.T) {
	env := newTestEnv(t)
	env.addCluster(t, "alpha")

	_, err := env.run(t, "", "list-pods", "-o", "xml")
	if !util.IsConfigurationError(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestMetricsAndLogFiles(t *testing.T) {
	env := newTestEnv(t)
	env.addCluster(t, "alpha", testErrorPod("ns1", "p1"))

	metricsFile := filepath.Join(t.TempDir(), "pod_cleaner.prom")
	logFile := filepath.Join(t.TempDir(), "logs", "pod-cleaner.log")

	if _, err := env.run(t, "", "clean-pods", "-y", "--metrics-file", metricsFile, "--log-file", logFile); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	metrics, err := os.ReadFile(metricsFile)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	for _, want := range []string{"pod_cleaner_clusters_loaded_total 1", `pod_cleaner_pod_deletions_total{cluster="alpha",result="success"} 1`} {
		if !strings.Contains(string(metrics), want) {
			t.Errorf("metrics missing %q:\n%s", want, metrics)
		}
	}

	logs, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(logs), "deleted pod") {
		t.Errorf("log file missing deletion record:\n%s", logs)
	}
}

func TestLegacyDirectoryEnvironment(t *testing.T) {
	env := newTestEnv(t)
	env.addCluster(t, "alpha")
	t.Setenv("KUBECONFIG_DIR", env.dir)

	out := &bytes.Buffer{}
	a := app.New(strings.NewReader(""), out, &bytes.Buffer{})
	a.ClientsetFactory = env.factory()

	cmd := newRootCmd(a)
	cmd.SetOut(out)
	cmd.SetArgs([]string{"cluster-info", "--no-color"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "alpha") {
		t.Errorf("cluster from KUBECONFIG_DIR not loaded:\n%s", out.String())
	}
}
