// Package registry exposes the RNCP certification registry: the entity
// descriptors shared by the reconciliation pipeline and the HTTP query API
// over the reconciled store.
package registry
