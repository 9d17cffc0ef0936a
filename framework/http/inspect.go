package http

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/routing"
)

// ServiceSummary is one row of the service listing.
type ServiceSummary struct {
	ID           string   `json:"id"`
	Class        string   `json:"class"`
	Shared       bool     `json:"shared"`
	Protected    bool     `json:"protected"`
	Resolved     bool     `json:"resolved"`
	Dependencies []string `json:"dependencies"`
}

// ServiceDetail describes a single service.
type ServiceDetail struct {
	ServiceSummary
	Definition container.DefinitionRecord `json:"definition"`
	Stats      container.BuildStats       `json:"stats"`
}

// Inspector exposes a read-only view of a container over HTTP. It never
// builds a service.
//
//	GET /_container/services        every definition (?shared=&protected=&resolved=)
//	GET /_container/services/{id}   one definition with its build stats
//	GET /_container/config          config keys (values are not exposed)
type Inspector struct {
	container *container.Container
	log       logrus.FieldLogger
}

// NewInspector creates an Inspector for c.
func NewInspector(c *container.Container) *Inspector {
	return &Inspector{container: c, log: c.Logger()}
}

// Mount registers the inspection routes under prefix. Responses reflect live
// container state and are marked uncacheable.
func (i *Inspector) Mount(r *routing.Router, prefix string) {
	r.Prefix(prefix, func(r *routing.Router) {
		r.Middleware(middleware.NoCache)
		r.Get("/services", i.services)
		r.Get("/services/{id}", i.service)
		r.Get("/config", i.config)
	})
}

// services accepts the optional boolean filters shared, protected and
// resolved.
func (i *Inspector) services(w http.ResponseWriter, r *http.Request) {
	req, res := NewRequest(r), NewResponse(w)
	var filters [3]*bool
	for n, key := range []string{"shared", "protected", "resolved"} {
		b, err := req.OptionalBool(key)
		if err != nil {
			res.Error(http.StatusBadRequest, err.Error())
			return
		}
		filters[n] = b
	}

	ids := i.container.Services()
	out := make([]ServiceSummary, 0, len(ids))
	for _, id := range ids {
		def, err := i.container.Definition(id)
		if err != nil {
			// removed by a concurrent LoadServices
			continue
		}
		s := i.summary(id, def)
		if !matches(filters[0], s.Shared) || !matches(filters[1], s.Protected) || !matches(filters[2], s.Resolved) {
			continue
		}
		out = append(out, s)
	}
	res.Success(out)
}

func matches(want *bool, got bool) bool { return want == nil || *want == got }

func (i *Inspector) service(w http.ResponseWriter, r *http.Request) {
	res := NewResponse(w)
	id := NewRequest(r).RouteParam("id")

	def, err := i.container.Definition(id)
	if container.IsUnknownService(err) {
		res.NotFound(err.Error())
		return
	}
	if err != nil {
		i.log.WithError(err).WithField("service", id).Error("inspect: reading definition")
		res.ServerError()
		return
	}
	res.Success(ServiceDetail{
		ServiceSummary: i.summary(id, def),
		Definition:     container.RecordOf(def),
		Stats:          i.container.Stats(id),
	})
}

func (i *Inspector) config(w http.ResponseWriter, _ *http.Request) {
	NewResponse(w).Success(i.container.Config().Keys())
}

func (i *Inspector) summary(id string, def container.Definition) ServiceSummary {
	deps := def.Dependencies()
	if deps == nil {
		deps = []string{}
	}
	return ServiceSummary{
		ID:           id,
		Class:        def.Class,
		Shared:       def.Shared,
		Protected:    def.Protected,
		Resolved:     i.container.Resolved(id),
		Dependencies: deps,
	}
}
