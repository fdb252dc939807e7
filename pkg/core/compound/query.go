package compound

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scienceol/chemlookup/pkg/common/code"
	"github.com/scienceol/chemlookup/pkg/repo"
)

// Query is one immutable lookup request.
type Query struct {
	Namespace repo.Namespace
	Term      string
}

// ParseQuery validates term for namespace. SMILES are left untouched apart
// from surrounding whitespace.
func ParseQuery(namespace repo.Namespace, term string) (Query, error) {
	namespace = repo.Namespace(strings.ToLower(strings.TrimSpace(string(namespace))))
	if !namespace.Valid() {
		return Query{}, code.NamespaceInvalid.WithMsgf("namespace %q, want smiles, cid or name", namespace)
	}

	term = strings.TrimSpace(term)
	if term == "" {
		return Query{}, code.QueryInvalid.WithMsgf("empty %s", namespace)
	}

	if namespace == repo.NamespaceCID {
		cid, err := strconv.ParseInt(term, 10, 64)
		if err != nil || cid <= 0 {
			return Query{}, code.QueryInvalid.WithMsgf("cid %q is not a positive integer", term)
		}
		term = strconv.FormatInt(cid, 10)
	}

	return Query{Namespace: namespace, Term: term}, nil
}

// SMILES returns the structure part of a CXSMILES term.
func (q Query) SMILES() string {
	if q.Namespace != repo.NamespaceSMILES {
		return ""
	}
	smiles, _ := splitCXSMILES(q.Term)
	return smiles
}

// Annotation returns the CXSMILES extension without its bars, e.g.
// "$_AV:1;2;1;O';O;3$" for "CC(C(=O)O)C |$_AV:1;2;1;O';O;3$|".
func (q Query) Annotation() string {
	if q.Namespace != repo.NamespaceSMILES {
		return ""
	}
	_, annotation := splitCXSMILES(q.Term)
	return annotation
}

// Key is the cache key. Names are case-insensitive at PubChem, SMILES are not.
func (q Query) Key() string {
	term := q.Term
	if q.Namespace == repo.NamespaceName {
		term = strings.ToLower(term)
	}
	return fmt.Sprintf("%s:%s", q.Namespace, term)
}

// StripStereo removes '/' and '\' bond directions from the SMILES part of
// a query. Whatever follows the first blank is kept as typed.
func (q Query) StripStereo() Query {
	if q.Namespace != repo.NamespaceSMILES {
		return q
	}
	smiles, rest := q.Term, ""
	if idx := strings.IndexAny(q.Term, " \t"); idx >= 0 {
		smiles, rest = q.Term[:idx], q.Term[idx:]
	}
	smiles = strings.NewReplacer("/", "", `\`, "").Replace(smiles)
	return Query{Namespace: q.Namespace, Term: smiles + rest}
}

func (q Query) String() string {
	return fmt.Sprintf("%s %s", q.Namespace, q.Term)
}

func splitCXSMILES(term string) (string, string) {
	idx := strings.IndexAny(term, " \t")
	if idx < 0 {
		return term, ""
	}
	smiles := term[:idx]
	rest := strings.TrimSpace(term[idx:])
	if len(rest) >= 2 && strings.HasPrefix(rest, "|") {
		if end := strings.LastIndex(rest, "|"); end > 0 {
			return smiles, rest[1:end]
		}
	}
	return smiles, ""
}
