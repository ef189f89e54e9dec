package report

import (
	"net/http"

	kuberrors "github.com/kubetrim/kube-trim/pkg/errors"
	"github.com/kubetrim/kube-trim/pkg/serializer"
	"github.com/kubetrim/kube-trim/pkg/server"
)

// SamplesResponse is the raw sample dump served on the samples endpoint.
type SamplesResponse struct {
	Nodes any `json:"nodes" yaml:"nodes"`
	Pods  any `json:"pods" yaml:"pods"`
}

// HandleReport serves the aggregated right-sizing report.
func (b *Builder) HandleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		server.WriteError(w, r, http.StatusMethodNotAllowed,
			kuberrors.ErrCodeMethodNotAllowed, "only GET is supported", false, nil)
		return
	}

	rep, err := b.Build(r.Context())
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "failed to build report", nil)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, rep)
}

// HandleSamples serves the raw retained samples, unaggregated.
func (b *Builder) HandleSamples(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		server.WriteError(w, r, http.StatusMethodNotAllowed,
			kuberrors.ErrCodeMethodNotAllowed, "only GET is supported", false, nil)
		return
	}

	if b.Store == nil {
		server.WriteError(w, r, http.StatusServiceUnavailable,
			kuberrors.ErrCodeUnavailable, "sample store not configured", true, nil)
		return
	}

	nodes, err := b.Store.Nodes(r.Context())
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "failed to load node samples", nil)
		return
	}

	pods, err := b.Store.Pods(r.Context())
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "failed to load pod samples", nil)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, SamplesResponse{Nodes: nodes, Pods: pods})
}
