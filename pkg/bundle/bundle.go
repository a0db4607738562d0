// Package bundle defines the YAML export/import format for a workspace's
// full content — documents, versions, and comments — mirroring the
// teacher's YAML resource-application shape (apiVersion/kind/metadata/spec)
// applied here to a single export bundle instead of a cluster resource.
package bundle

import (
	"fmt"

	"github.com/agentdocs/agentdocs/pkg/store"
	"github.com/agentdocs/agentdocs/pkg/types"
)

// APIVersion and Kind identify the bundle format, the way WarrenResource
// tags every applied resource.
const (
	APIVersion = "agentdocs/v1"
	Kind       = "WorkspaceBundle"
)

// Bundle is the full exportable content of one workspace.
type Bundle struct {
	APIVersion string       `yaml:"apiVersion"`
	Kind       string       `yaml:"kind"`
	Workspace  WorkspaceDoc `yaml:"workspace"`
	Documents  []DocumentDoc `yaml:"documents"`
}

// WorkspaceDoc is the workspace metadata carried in a bundle. The manage
// key is never included — import always mints a fresh one.
type WorkspaceDoc struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	IsPublic    bool   `yaml:"isPublic"`
}

// DocumentDoc is one document plus its full version and comment history.
type DocumentDoc struct {
	Title    string                  `yaml:"title"`
	Summary  string                  `yaml:"summary"`
	Tags     []string                `yaml:"tags"`
	Status   types.DocumentStatus    `yaml:"status"`
	Author   string                  `yaml:"author"`
	Content  string                  `yaml:"content"`
	Versions []VersionDoc            `yaml:"versions,omitempty"`
	Comments []CommentDoc            `yaml:"comments,omitempty"`
}

// VersionDoc is one historical snapshot of a document.
type VersionDoc struct {
	Number            int    `yaml:"number"`
	Content           string `yaml:"content"`
	Summary           string `yaml:"summary"`
	Author            string `yaml:"author"`
	ChangeDescription string `yaml:"changeDescription"`
}

// CommentDoc is one comment, flattened: which comment it replies to is not
// carried, so the reply tree is not preserved in a bundle.
type CommentDoc struct {
	Author   string `yaml:"author"`
	Content  string `yaml:"content"`
	Resolved bool   `yaml:"resolved"`
}

// Export reads workspaceID's full content from st into a Bundle.
func Export(st store.Store, workspaceID string) (*Bundle, error) {
	ws, err := st.GetWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}

	docs, err := st.ListDocuments(workspaceID, true)
	if err != nil {
		return nil, err
	}

	b := &Bundle{
		APIVersion: APIVersion,
		Kind:       Kind,
		Workspace: WorkspaceDoc{
			Name:        ws.Name,
			Description: ws.Description,
			IsPublic:    ws.IsPublic,
		},
	}

	for _, doc := range docs {
		versions, err := st.ListVersions(workspaceID, doc.ID)
		if err != nil {
			return nil, err
		}
		comments, err := st.ListComments(workspaceID, doc.ID)
		if err != nil {
			return nil, err
		}

		docDoc := DocumentDoc{
			Title:   doc.Title,
			Summary: doc.Summary,
			Tags:    doc.Tags,
			Status:  doc.Status,
			Author:  doc.AuthorName,
			Content: doc.Content,
		}
		for _, v := range versions {
			docDoc.Versions = append(docDoc.Versions, VersionDoc{
				Number:            v.VersionNumber,
				Content:           v.Content,
				Summary:           v.Summary,
				Author:            v.AuthorName,
				ChangeDescription: v.ChangeDescription,
			})
		}
		for _, cm := range comments {
			docDoc.Comments = append(docDoc.Comments, CommentDoc{
				Author:   cm.AuthorName,
				Content:  cm.Content,
				Resolved: cm.Resolved,
			})
		}
		b.Documents = append(b.Documents, docDoc)
	}

	return b, nil
}

// Import recreates a workspace and its documents/comments from b, minting
// a fresh manage key. Each document is created from its current content as
// a new version 1; the bundle's Versions are not imported. Comments are
// recreated as top-level, unresolved comments.
func Import(st store.Store, b *Bundle) (*types.Workspace, string, error) {
	if b.Kind != Kind {
		return nil, "", fmt.Errorf("unsupported bundle kind %q", b.Kind)
	}

	ws, key, err := st.CreateWorkspace(b.Workspace.Name, b.Workspace.Description, b.Workspace.IsPublic)
	if err != nil {
		return nil, "", err
	}

	for _, docDoc := range b.Documents {
		doc, err := st.CreateDocument(ws.ID, docDoc.Title, docDoc.Content, docDoc.Summary, docDoc.Tags, docDoc.Status, docDoc.Author)
		if err != nil {
			return nil, "", fmt.Errorf("import document %q: %w", docDoc.Title, err)
		}
		for _, cm := range docDoc.Comments {
			if _, err := st.CreateComment(ws.ID, doc.ID, nil, cm.Author, cm.Content); err != nil {
				return nil, "", fmt.Errorf("import comment on %q: %w", docDoc.Title, err)
			}
		}
	}

	return ws, key, nil
}
