package adapter

import (
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"golang.org/x/tools/go/packages"
)

// docIndex maps type checker objects to the comment text attached to their declaration.
type docIndex struct {
	types  map[types.Object]string
	fields map[types.Object]string
	consts map[types.Object]string
}

func newDocIndex(pkgs []*packages.Package) *docIndex {
	idx := &docIndex{
		types:  make(map[types.Object]string),
		fields: make(map[types.Object]string),
		consts: make(map[types.Object]string),
	}

	for _, pkg := range pkgs {
		if pkg.TypesInfo == nil {
			continue
		}
		for _, file := range pkg.Syntax {
			idx.addFile(pkg.TypesInfo, file)
		}
	}

	return idx
}

func (idx *docIndex) addFile(info *types.Info, file *ast.File) {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok {
			continue
		}

		switch genDecl.Tok {
		case token.TYPE:
			for _, spec := range genDecl.Specs {
				typeSpec, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				doc := typeSpec.Doc
				if doc == nil && len(genDecl.Specs) == 1 {
					doc = genDecl.Doc
				}
				if doc == nil {
					doc = typeSpec.Comment
				}
				if obj := info.Defs[typeSpec.Name]; obj != nil && doc != nil {
					idx.types[obj] = doc.Text()
				}

				ast.Inspect(typeSpec.Type, func(n ast.Node) bool {
					if field, ok := n.(*ast.Field); ok {
						idx.addField(info, field)
					}
					return true
				})
			}
		case token.CONST:
			for _, spec := range genDecl.Specs {
				valueSpec, ok := spec.(*ast.ValueSpec)
				if !ok {
					continue
				}
				doc := valueSpec.Comment
				if doc == nil {
					doc = valueSpec.Doc
				}
				if doc == nil {
					continue
				}
				for _, name := range valueSpec.Names {
					if obj := info.Defs[name]; obj != nil {
						idx.consts[obj] = strings.TrimSpace(doc.Text())
					}
				}
			}
		}
	}
}

func (idx *docIndex) addField(info *types.Info, field *ast.Field) {
	doc := field.Doc
	if doc == nil {
		doc = field.Comment
	}
	if doc == nil {
		return
	}
	for _, name := range field.Names {
		if obj := info.Defs[name]; obj != nil {
			idx.fields[obj] = doc.Text()
		}
	}
}

func (idx *docIndex) typeDoc(obj types.Object) string {
	return idx.types[obj]
}

// fieldDoc accepts fields of generic instantiations and maps them to their origin.
func (idx *docIndex) fieldDoc(field *types.Var) string {
	return idx.fields[field.Origin()]
}

func (idx *docIndex) constDoc(obj types.Object) string {
	return idx.consts[obj]
}
