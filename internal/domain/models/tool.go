// internal/domain/models/tool.go
package models

// Tool is one entry of the global tool catalog ("ferramentas" map),
// keyed by tool id. Groups reference tools by id only; the catalog is
// independent of any group.
type Tool struct {
	Name        string `bson:"nome" json:"nome"`
	BaseURL     string `bson:"url_base" json:"url_base"`
	Description string `bson:"descricao" json:"descricao"`
}
