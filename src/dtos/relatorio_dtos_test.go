package dtos

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmatss/prova-modelagem-app/src/models"
)

func TestParseRelatorioForm(t *testing.T) {
	ppt := &multipart.FileHeader{Filename: "apresentacao.pptx"}
	fotoDesenho := &multipart.FileHeader{Filename: "desenho.png"}
	fotoAmostra := &multipart.FileHeader{Filename: "amostra.png"}

	form := &multipart.Form{
		Value: map[string][]string{
			"descricao_geral":          {"Coleção Verão"},
			"colecao":                  {"Verão 2026"},
			"estacao":                  {"  Alto Verão  "},
			"ano":                      {"2026"},
			"ref_baby":                 {"RF-100"},
			"origem_baby":              {"Nacional"},
			"fornecedor_baby":          {"Malharia Sul"},
			"tamanhos_recebidos_baby":  {"P", "M 2"},
			"data_recebimento_baby":    {"10/01/2026"},
			"prova_id_baby":            {"7", "nao-numero"},
			"time_qualidade_7":         {"Equipe A"},
			"comentarios_qualidade_7":  {"ajustar medidas"},
			"tamanhos_recebidos_7":     {"G"},
			"ref_kids":                 {""},
		},
		File: map[string][]*multipart.FileHeader{
			"ppt":                     {ppt},
			"fotos_desenho_baby":      {fotoDesenho},
			"fotos_amostra_baby_M2":   {fotoAmostra},
			"fotos_estilo_inexistente": {fotoDesenho},
		},
	}

	rf := ParseRelatorioForm(form)

	assert.Equal(t, "Coleção Verão", rf.DescricaoGeral)
	assert.Equal(t, "Alto Verão", rf.Estacao)
	assert.Same(t, ppt, rf.Ppt)

	// ref_kids vazio não vira referência.
	require.Len(t, rf.Referencias, 1)
	ref := rf.Referencias["baby"]
	require.NotNil(t, ref)
	assert.Equal(t, "RF-100", ref.NumeroRef)
	assert.Equal(t, "Malharia Sul", ref.Fornecedor)

	nova := ref.NovaProva
	assert.Equal(t, "10/01/2026", nova.DataRecebimento)
	assert.Equal(t, []string{"P", "M 2"}, nova.TamanhosRecebidos)
	require.Len(t, nova.FotosPorContexto[models.ContextoDesenho], 1)
	assert.Same(t, fotoDesenho, nova.FotosPorContexto[models.ContextoDesenho][0])

	// O tamanho "M 2" mapeia para a chave de arquivo sem espaços.
	require.NotNil(t, nova.FotosPorTamanho[models.ContextoAmostra])
	require.Len(t, nova.FotosPorTamanho[models.ContextoAmostra]["M 2"], 1)
	assert.Same(t, fotoAmostra, nova.FotosPorTamanho[models.ContextoAmostra]["M 2"][0])

	// Ids não numéricos são ignorados.
	require.Len(t, ref.ProvasExistentes, 1)
	existente := ref.ProvasExistentes[7]
	assert.Equal(t, "Equipe A", existente.TimeQualidade)
	assert.Equal(t, "ajustar medidas", existente.ComentariosQualidade)
	assert.Equal(t, []string{"G"}, existente.TamanhosRecebidos)
}

func TestParseProvaFormPorCategoria(t *testing.T) {
	foto := &multipart.FileHeader{Filename: "prova.png"}
	form := &multipart.Form{
		Value: map[string][]string{
			"data_prova_adulto":         {"15/02/2026"},
			"tamanhos_recebidos_adulto": {"G", ""},
			"numero_lacre_adulto":       {"L-55"},
		},
		File: map[string][]*multipart.FileHeader{
			"fotos_prova_modelo_adulto_G": {foto},
			"tabela_medidas_adulto":       {{Filename: "tabela.xlsx"}},
		},
	}

	pf := ParseProvaForm(form, "adulto")

	assert.Equal(t, "15/02/2026", pf.DataProva)
	assert.Equal(t, "L-55", pf.NumeroLacre)
	// Valores vazios do mesmo campo são descartados.
	assert.Equal(t, []string{"G"}, pf.TamanhosRecebidos)
	require.NotNil(t, pf.TabelaMedidas)
	assert.Equal(t, "tabela.xlsx", pf.TabelaMedidas.Filename)
	require.Len(t, pf.FotosPorTamanho[models.ContextoProvaModelo]["G"], 1)
	assert.Empty(t, pf.FotosPorContexto)
}

func TestParseRelatorioFormVazio(t *testing.T) {
	rf := ParseRelatorioForm(&multipart.Form{Value: map[string][]string{}, File: map[string][]*multipart.FileHeader{}})
	assert.Empty(t, rf.DescricaoGeral)
	assert.Nil(t, rf.Ppt)
	assert.Empty(t, rf.Referencias)
}
