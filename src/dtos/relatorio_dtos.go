package dtos

import (
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/nmatss/prova-modelagem-app/src/models"
)

// ProvaForm carries the review fields of a single prova as submitted, plus the
// uploaded photo parts grouped by context (and by received size where the
// context calls for it).
type ProvaForm struct {
	DataRecebimento      string
	TamanhosRecebidos    []string
	InfoMedidas          string
	DataProva            string
	TimeQualidade        string
	ComentariosQualidade string
	TimeEstilo           string
	ComentariosEstilo    string
	TimeModelagem        string
	ComentariosModelagem string
	DataLacre            string
	NumeroLacre          string
	InfoAdicionais       string

	TabelaMedidas *multipart.FileHeader

	// FotosPorContexto holds the desenho/qualidade/estilo parts.
	FotosPorContexto map[string][]*multipart.FileHeader
	// FotosPorTamanho holds the amostra/prova_modelo parts keyed by
	// contexto and then by the declared received size.
	FotosPorTamanho map[string]map[string][]*multipart.FileHeader
}

// ReferenciaForm is the per-category slice of a report submission.
type ReferenciaForm struct {
	NumeroRef    string
	Origem       string
	Fornecedor   string
	MateriaPrima string
	Composicao   string
	Gramatura    string
	Aviamentos   string

	// NovaProva carries the category-suffixed prova fields used when the
	// category has no reference yet.
	NovaProva ProvaForm
	// ProvasExistentes maps submitted prova ids to their id-suffixed fields.
	ProvasExistentes map[int]ProvaForm
}

// RelatorioForm is the parsed shape of a create/edit report submission.
type RelatorioForm struct {
	DescricaoGeral string
	Colecao        string
	Estacao        string
	Ano            string
	Ppt            *multipart.FileHeader

	// Referencias holds one entry per category whose ref_<tipo> field was
	// filled in; absent categories are skipped entirely.
	Referencias map[string]*ReferenciaForm
}

// ParseRelatorioForm maps the multipart submission onto a typed structure.
// Field names follow the wire convention <campo>_<tipo> for new references and
// <campo>_<provaID> for existing provas.
func ParseRelatorioForm(form *multipart.Form) *RelatorioForm {
	rf := &RelatorioForm{
		DescricaoGeral: value(form, "descricao_geral"),
		Colecao:        value(form, "colecao"),
		Estacao:        value(form, "estacao"),
		Ano:            value(form, "ano"),
		Ppt:            file(form, "ppt"),
		Referencias:    make(map[string]*ReferenciaForm),
	}

	for _, tipo := range models.CategoriasProduto {
		numeroRef := value(form, "ref_"+tipo)
		if numeroRef == "" {
			continue
		}
		ref := &ReferenciaForm{
			NumeroRef:        numeroRef,
			Origem:           value(form, "origem_"+tipo),
			Fornecedor:       value(form, "fornecedor_"+tipo),
			MateriaPrima:     value(form, "materia_prima_"+tipo),
			Composicao:       value(form, "composicao_"+tipo),
			Gramatura:        value(form, "gramatura_"+tipo),
			Aviamentos:       value(form, "aviamentos_"+tipo),
			NovaProva:        parseProvaForm(form, tipo),
			ProvasExistentes: make(map[int]ProvaForm),
		}
		for _, raw := range values(form, "prova_id_"+tipo) {
			provaID, err := strconv.Atoi(raw)
			if err != nil {
				continue
			}
			ref.ProvasExistentes[provaID] = parseProvaForm(form, strconv.Itoa(provaID))
		}
		rf.Referencias[tipo] = ref
	}

	return rf
}

// ParseProvaForm maps an append-prova submission, whose fields are suffixed by
// the reference's category.
func ParseProvaForm(form *multipart.Form, tipo string) ProvaForm {
	return parseProvaForm(form, tipo)
}

func parseProvaForm(form *multipart.Form, suffix string) ProvaForm {
	pf := ProvaForm{
		DataRecebimento:      value(form, "data_recebimento_"+suffix),
		TamanhosRecebidos:    values(form, "tamanhos_recebidos_"+suffix),
		InfoMedidas:          value(form, "info_medidas_"+suffix),
		DataProva:            value(form, "data_prova_"+suffix),
		TimeQualidade:        value(form, "time_qualidade_"+suffix),
		ComentariosQualidade: value(form, "comentarios_qualidade_"+suffix),
		TimeEstilo:           value(form, "time_estilo_"+suffix),
		ComentariosEstilo:    value(form, "comentarios_estilo_"+suffix),
		TimeModelagem:        value(form, "time_modelagem_"+suffix),
		ComentariosModelagem: value(form, "comentarios_modelagem_"+suffix),
		DataLacre:            value(form, "data_lacre_"+suffix),
		NumeroLacre:          value(form, "numero_lacre_"+suffix),
		InfoAdicionais:       value(form, "info_adicionais_"+suffix),
		TabelaMedidas:        file(form, "tabela_medidas_"+suffix),
		FotosPorContexto:     make(map[string][]*multipart.FileHeader),
		FotosPorTamanho:      make(map[string]map[string][]*multipart.FileHeader),
	}

	for _, contexto := range models.ContextosGerais {
		if fotos := files(form, "fotos_"+contexto+"_"+suffix); len(fotos) > 0 {
			pf.FotosPorContexto[contexto] = fotos
		}
	}

	for _, tamanho := range pf.TamanhosRecebidos {
		key := strings.ReplaceAll(tamanho, " ", "")
		for _, contexto := range models.ContextosPorTamanho {
			fotos := files(form, "fotos_"+contexto+"_"+suffix+"_"+key)
			if len(fotos) == 0 {
				continue
			}
			if pf.FotosPorTamanho[contexto] == nil {
				pf.FotosPorTamanho[contexto] = make(map[string][]*multipart.FileHeader)
			}
			pf.FotosPorTamanho[contexto][tamanho] = fotos
		}
	}

	return pf
}

func value(form *multipart.Form, key string) string {
	if vs := form.Value[key]; len(vs) > 0 {
		return strings.TrimSpace(vs[0])
	}
	return ""
}

func values(form *multipart.Form, key string) []string {
	var out []string
	for _, v := range form.Value[key] {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func file(form *multipart.Form, key string) *multipart.FileHeader {
	if fs := form.File[key]; len(fs) > 0 {
		return fs[0]
	}
	return nil
}

func files(form *multipart.Form, key string) []*multipart.FileHeader {
	return form.File[key]
}

// RelatorioResumo is the dashboard listing row: report columns plus the status
// of its most recent prova.
type RelatorioResumo struct {
	ID             int       `json:"id"`
	DescricaoGeral string    `json:"descricaoGeral"`
	Colecao        *string   `json:"colecao"`
	Estacao        *string   `json:"estacao"`
	Ano            *string   `json:"ano"`
	StatusAtual    string    `json:"statusAtual"`
	NumReferencias int       `json:"numReferencias"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ProvaDetalhes nests a prova with its photos grouped by contexto.
type ProvaDetalhes struct {
	models.ProvaModel
	TamanhosLista    []string                      `json:"tamanhosLista"`
	FotosPorContexto map[string][]models.FotoModel `json:"fotosPorContexto"`
}

// ReferenciaDetalhes nests a reference with its ordered provas.
type ReferenciaDetalhes struct {
	models.ReferenciaModel
	Provas []ProvaDetalhes `json:"provas"`
}

// RelatorioDetalhes is the full nested view of a report.
type RelatorioDetalhes struct {
	models.RelatorioModel
	Referencias []ReferenciaDetalhes `json:"referencias"`
}
