package k8s

import "os"

// GetNodeName returns the node identity for snapshot metadata, checking
// NODE_NAME, then KUBERNETES_NODE_NAME, then HOSTNAME.
func GetNodeName() string {
	for _, env := range [...]string{"NODE_NAME", "KUBERNETES_NODE_NAME", "HOSTNAME"} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}

	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}
