// Package http provides JSON response helpers and a read-only HTTP view of a
// service container.
//
// # Response
//
//	res := gohttp.NewResponse(w)
//	res.Success(v)                       // 200 {"data": v}
//	res.Error(http.StatusBadRequest, "x") // 400 {"message": "x"}
//	res.NotFound()                        // 404 {"message": "Not found."}
//
// # Inspector
//
//	gohttp.NewInspector(c).Mount(router, "/_container")
//
//	GET /_container/services        id, class, lifetime and dependencies of every service
//	GET /_container/services/{id}   the definition as declared plus build stats
//	GET /_container/config          config keys
package http
