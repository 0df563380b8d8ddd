// Package fetch retrieves RNCP export releases. It lists the data.gouv.fr
// dataset, downloads the selected archive, extracts the per-entity CSV rows
// and keeps a bounded history of archives in object storage.
package fetch
