// Package hierarchy builds the human-readable identifiers that encode an
// entity's position in the Project -> Client Requirement -> Epic ->
// Functional Requirement -> Task containment tree.
//
// Identifiers are pure string derivations: the same ancestor names and
// sequence number always produce the same ID. They are assigned once at
// creation and never recomputed, so renaming an ancestor does not touch
// the IDs of anything underneath it.
package hierarchy

import "fmt"

// Kind selects which ancestors participate in an identifier.
type Kind int

const (
	// KindStandalone: entity sits directly under the project.
	KindStandalone Kind = iota
	// KindEpicOnly: entity sits under an epic that has no client
	// requirement above it.
	KindEpicOnly
	// KindFullChain: project -> client requirement -> epic.
	KindFullChain
)

// Ancestry describes the resolved ancestor chain of an entity at
// creation time. Callers that fail to resolve an ancestor (deleted
// concurrently, dangling link) degrade to a simpler Kind instead of
// failing the creation.
type Ancestry struct {
	Kind        Kind
	ProjectCode string
	Requirement string // client requirement title, FullChain only
	Epic        string // epic name, EpicOnly and FullChain
}

// Standalone is the ancestry of an entity directly under a project.
func Standalone(projectCode string) Ancestry {
	return Ancestry{Kind: KindStandalone, ProjectCode: projectCode}
}

// EpicOnly is the ancestry of an entity under an epic with no client
// requirement above it.
func EpicOnly(projectCode, epicName string) Ancestry {
	return Ancestry{Kind: KindEpicOnly, ProjectCode: projectCode, Epic: epicName}
}

// FullChain is the ancestry of an entity under project, client
// requirement and epic.
func FullChain(projectCode, requirementTitle, epicName string) Ancestry {
	return Ancestry{
		Kind:        KindFullChain,
		ProjectCode: projectCode,
		Requirement: requirementTitle,
		Epic:        epicName,
	}
}

// RequirementID builds the identifier of a client requirement:
// <CODE>-R<TOK>-<NN>.
func RequirementID(projectCode, title string, seq int64) string {
	return fmt.Sprintf("%s-R%s-%02d", projectCode, Token(title), seq)
}

// EpicID builds the identifier of an epic. With a client requirement in
// the chain the requirement token is embedded, so a reader can tell a
// grouped epic from a standalone one:
//
//	FullChain:  <CODE>-R<RTOK>-E<ETOK>-<NN>
//	otherwise:  <CODE>-E<ETOK>-<NN>
func EpicID(a Ancestry, epicName string, seq int64) string {
	if a.Kind == KindFullChain {
		return fmt.Sprintf("%s-R%s-E%s-%02d", a.ProjectCode, Token(a.Requirement), Token(epicName), seq)
	}
	return fmt.Sprintf("%s-E%s-%02d", a.ProjectCode, Token(epicName), seq)
}

// FunctionalRequirementID builds the identifier of a functional
// requirement. The three ancestry kinds produce prefixes with a
// different segment count, so the chain is readable off the ID:
//
//	FullChain:  <CODE>-R<RTOK>-E<ETOK>-FR<TTOK>-<NN>
//	EpicOnly:   <CODE>-E<ETOK>-FR<TTOK>-<NN>
//	Standalone: <CODE>-FR<TTOK>-<NN>
func FunctionalRequirementID(a Ancestry, title string, seq int64) string {
	switch a.Kind {
	case KindFullChain:
		return fmt.Sprintf("%s-R%s-E%s-FR%s-%02d",
			a.ProjectCode, Token(a.Requirement), Token(a.Epic), Token(title), seq)
	case KindEpicOnly:
		return fmt.Sprintf("%s-E%s-FR%s-%02d", a.ProjectCode, Token(a.Epic), Token(title), seq)
	default:
		return fmt.Sprintf("%s-FR%s-%02d", a.ProjectCode, Token(title), seq)
	}
}
