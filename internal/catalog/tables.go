package catalog

// Table names.
const (
	Serie          = "serie"
	Categoria      = "categoria"
	Ator           = "ator"
	MotivoAssistir = "motivo_assistir"
)

var allOps = []Op{OpRead, OpCreate, OpUpdate, OpDelete}

// Default returns the media catalog registry.
func Default() *Registry {
	return NewRegistry(
		&Table{
			Name:     Serie,
			IDColumn: "id",
			Fields: []Field{
				{Name: "titulo", Kind: KindText},
				{Name: "descricao", Kind: KindText},
				{Name: "ano_lancamento", Kind: KindInteger},
				{Name: "id_categoria", Kind: KindInteger},
			},
			Ops: allOps,
			Messages: Messages{
				Created:  "Série cadastrada com sucesso!",
				Updated:  "Série atualizada com sucesso!",
				Deleted:  "Série deletada com sucesso!",
				NotFound: "Série não encontrada",
			},
		},
		&Table{
			Name:     Categoria,
			IDColumn: "id",
			Fields: []Field{
				{Name: "nome", Kind: KindText},
			},
			Ops: allOps,
			Messages: Messages{
				Created:  "Categoria cadastrada com sucesso!",
				Updated:  "Categoria atualizada com sucesso!",
				Deleted:  "Categoria deletada com sucesso!",
				NotFound: "Categoria não encontrada",
			},
		},
		&Table{
			Name:     Ator,
			IDColumn: "id",
			Fields: []Field{
				{Name: "nome", Kind: KindText},
				{Name: "personagem", Kind: KindText},
			},
			Ops: allOps,
			Messages: Messages{
				Created:  "Ator cadastrado com sucesso!",
				Updated:  "Ator atualizado com sucesso!",
				Deleted:  "Ator deletado com sucesso!",
				NotFound: "Ator não encontrado",
			},
		},
		&Table{
			Name:     MotivoAssistir,
			IDColumn: "id",
			Fields: []Field{
				{Name: "idserie", Kind: KindInteger},
				{Name: "motivo", Kind: KindText},
			},
			// Not creatable through POST /{table}.
			Ops: []Op{OpRead, OpUpdate, OpDelete},
			Messages: Messages{
				Created:  "Motivo de assistir cadastrado com sucesso!",
				Updated:  "Motivo de assistir atualizado com sucesso!",
				Deleted:  "Motivo de assistir deletado com sucesso!",
				NotFound: "Motivo de assistir não encontrado",
			},
		},
	)
}
