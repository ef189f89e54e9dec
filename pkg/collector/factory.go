package collector

import (
	"time"

	"k8s.io/client-go/kubernetes"
	"k8s.io/utils/exec"

	k8scollector "github.com/kubetrim/kube-trim/pkg/collector/k8s"
	topcollector "github.com/kubetrim/kube-trim/pkg/collector/top"
)

// Factory creates collectors with their dependencies.
// This interface enables dependency injection for testing.
type Factory interface {
	CreateNodeCollector() NodeCollector
	CreatePodCollector() PodCollector
	CreatePodInfoResolver() PodInfoResolver
}

// DefaultFactory creates collectors with production dependencies.
type DefaultFactory struct {
	// KubectlPath is the kubectl binary to invoke. Empty means "kubectl"
	// resolved via PATH.
	KubectlPath string

	// Execer runs external commands. Nil means the real implementation.
	Execer exec.Interface

	// Client is the Kubernetes API client used for pod spec lookups.
	Client kubernetes.Interface

	// CommandTimeout bounds each kubectl invocation.
	CommandTimeout time.Duration

	// ResolverTTL bounds how long pod spec lookups are cached.
	ResolverTTL time.Duration
}

// NewDefaultFactory creates a factory with default settings.
func NewDefaultFactory(client kubernetes.Interface) *DefaultFactory {
	return &DefaultFactory{
		Client:         client,
		CommandTimeout: 30 * time.Second,
		ResolverTTL:    5 * time.Minute,
	}
}

// CreateNodeCollector creates a kubectl top nodes collector.
func (f *DefaultFactory) CreateNodeCollector() NodeCollector {
	return &topcollector.Collector{
		Kubectl: f.KubectlPath,
		Execer:  f.Execer,
		Timeout: f.CommandTimeout,
	}
}

// CreatePodCollector creates a kubectl top pods collector.
func (f *DefaultFactory) CreatePodCollector() PodCollector {
	return &topcollector.Collector{
		Kubectl: f.KubectlPath,
		Execer:  f.Execer,
		Timeout: f.CommandTimeout,
	}
}

// CreatePodInfoResolver creates a caching pod spec resolver backed by the
// Kubernetes API.
func (f *DefaultFactory) CreatePodInfoResolver() PodInfoResolver {
	return k8scollector.NewResolver(f.Client, f.ResolverTTL)
}
