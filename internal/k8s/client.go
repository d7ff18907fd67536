package k8s

import (
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// Default namespace for job resources when none is configured.
const DefaultNamespace = "default"

// Holds client configuration.
type Config struct {
	Kubeconfig string // Path to a kubeconfig file. Empty uses in-cluster config or the default location.
	Context    string // Kubeconfig context override. Empty uses the current context.
	Namespace  string // Namespace for job resources. Empty uses [DefaultNamespace].
}

// Submits and observes training jobs on a Kubernetes cluster.
type Client struct {
	clientset kubernetes.Interface // API client for pod operations.
	namespace string               // Namespace scoping all job resources.
}

// Creates a client from the given configuration.
//
// Inside a cluster the mounted service account is used. Outside, the
// kubeconfig is loaded from the configured path, $KUBECONFIG, or the
// default location.
func New(cfg Config) (*Client, error) {
	restConfig, err := loadRestConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCluster, err)
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCluster, err)
	}

	return NewWithClientset(clientset, cfg.Namespace), nil
}

// Creates a client around an existing clientset.
//
// Used directly by tests with a fake clientset.
func NewWithClientset(clientset kubernetes.Interface, namespace string) *Client {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Client{
		clientset: clientset,
		namespace: namespace,
	}
}

// Resolves the REST config for the target cluster.
func loadRestConfig(cfg Config) (*rest.Config, error) {
	if cfg.Kubeconfig == "" && cfg.Context == "" {
		if restConfig, err := rest.InClusterConfig(); err == nil {
			return restConfig, nil
		}
	}

	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if cfg.Kubeconfig != "" {
		rules.ExplicitPath = cfg.Kubeconfig
	}

	overrides := &clientcmd.ConfigOverrides{}
	if cfg.Context != "" {
		overrides.CurrentContext = cfg.Context
	}

	return clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).ClientConfig()
}

// Returns the default kubeconfig path for error messages and CLI help.
func DefaultKubeconfig() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".kube", "config")
}
