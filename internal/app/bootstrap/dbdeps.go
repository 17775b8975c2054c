// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jowpereira/mcp-server/internal/app/directory"
	"github.com/jowpereira/mcp-server/internal/app/requestflow"
	"github.com/jowpereira/mcp-server/internal/app/store/rbacstore"
	"github.com/jowpereira/mcp-server/internal/app/store/requeststore"
)

// DBDeps bundles the stores and the services built on top of them.
// The mongo fields are nil when the file backend is in use.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	RBAC     rbacstore.Store
	Requests requeststore.Store

	Dir  *directory.Service
	Flow *requestflow.Service
}
