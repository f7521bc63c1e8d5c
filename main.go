// Package main cvsbridge API
//
//	@title			cvsbridge API
//	@version		1.0.0
//	@description	cvsbridge runs CVS client operations on local working copies
//
//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html
//
//	@host			localhost:3000
//	@BasePath		/api/v1
package main

import "github.com/cvsbridge/cvsbridge/internal"

//go:generate swag init --parseDependency --outputTypes go -g ./main.go -o ./internal/server/docs

func main() {
	internal.Run()
}
