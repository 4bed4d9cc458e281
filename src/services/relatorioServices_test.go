package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmatss/prova-modelagem-app/src/dtos"
	"github.com/nmatss/prova-modelagem-app/src/models"
)

func formCom(referencias map[string]*dtos.ReferenciaForm) *dtos.RelatorioForm {
	return &dtos.RelatorioForm{
		DescricaoGeral: "Coleção Verão",
		Colecao:        "Verão 2026",
		Estacao:        "Alto Verão",
		Ano:            "2026",
		Referencias:    referencias,
	}
}

func TestCreateRelatorioCriaReferenciaProvaPorCategoria(t *testing.T) {
	s, db, _ := newTestRelatorioService(t)

	form := formCom(map[string]*dtos.ReferenciaForm{
		"baby": {
			NumeroRef:  "RF-100",
			Fornecedor: "Malharia Sul",
			NovaProva:  dtos.ProvaForm{DataRecebimento: "10/01/2026", TamanhosRecebidos: []string{"P", "M"}},
		},
		"adulto": {
			NumeroRef: "RF-200",
			NovaProva: dtos.ProvaForm{TimeQualidade: "Equipe A"},
		},
	})

	relatorio, avisos, err := s.CreateRelatorio(testActor(), form)
	require.NoError(t, err)
	assert.Empty(t, avisos)
	assert.NotZero(t, relatorio.ID)

	var refs []models.ReferenciaModel
	require.NoError(t, db.Where("relatorio_id = ?", relatorio.ID).Find(&refs).Error)
	require.Len(t, refs, 2)

	for _, ref := range refs {
		var provas []models.ProvaModel
		require.NoError(t, db.Where("referencia_id = ?", ref.ID).Find(&provas).Error)
		require.Len(t, provas, 1)
		assert.Equal(t, 1, provas[0].NumeroProva)
		assert.Equal(t, models.StatusEmAndamento, provas[0].Status)
	}

	criacoes := auditRows(t, db, models.AcaoCreate)
	require.Len(t, criacoes, 1)
	assert.Equal(t, models.EntidadeRelatorio, criacoes[0].Entidade)
	assert.Equal(t, "admin", criacoes[0].UsuarioNome)
}

func TestListRelatoriosStatusDaUltimaProva(t *testing.T) {
	s, _, _ := newTestRelatorioService(t)

	comProvas, _, err := s.CreateRelatorio(testActor(), formCom(map[string]*dtos.ReferenciaForm{
		"kids": {NumeroRef: "RF-1"},
	}))
	require.NoError(t, err)

	semProvas, _, err := s.CreateRelatorio(testActor(), &dtos.RelatorioForm{
		DescricaoGeral: "Coleção Inverno",
		Referencias:    map[string]*dtos.ReferenciaForm{},
	})
	require.NoError(t, err)

	detalhes, err := s.GetRelatorioDetalhes(comProvas.ID)
	require.NoError(t, err)
	require.Len(t, detalhes.Referencias, 1)
	refID := detalhes.Referencias[0].ReferenciaModel.ID

	segunda, _, err := s.AddProva(testActor(), refID, dtos.ProvaForm{})
	require.NoError(t, err)
	assert.Equal(t, 2, segunda.NumeroProva)

	_, err = s.UpdateStatusProva(testActor(), segunda.ID, "Aprovada", "medidas ok")
	require.NoError(t, err)

	resumos, err := s.ListRelatorios()
	require.NoError(t, err)
	require.Len(t, resumos, 2)

	porID := map[int]string{}
	for _, r := range resumos {
		porID[r.ID] = r.StatusAtual
	}
	assert.Equal(t, "Aprovada", porID[comProvas.ID])
	assert.Equal(t, "Novo", porID[semProvas.ID])
}

func TestListRelatoriosPropagaErroDeConsulta(t *testing.T) {
	s, db, _ := newTestRelatorioService(t)

	_, _, err := s.CreateRelatorio(testActor(), formCom(map[string]*dtos.ReferenciaForm{
		"baby": {NumeroRef: "RF-1"},
	}))
	require.NoError(t, err)

	// Uma falha real na consulta de status não pode virar "Novo" silencioso.
	require.NoError(t, db.Migrator().DropTable(&models.ProvaModel{}))

	_, err = s.ListRelatorios()
	assert.Error(t, err)
}

func TestUpdateRelatorioAtualizaSemDuplicar(t *testing.T) {
	s, db, _ := newTestRelatorioService(t)

	relatorio, _, err := s.CreateRelatorio(testActor(), formCom(map[string]*dtos.ReferenciaForm{
		"baby": {NumeroRef: "RF-1", Origem: "Nacional"},
	}))
	require.NoError(t, err)

	var prova models.ProvaModel
	require.NoError(t, db.First(&prova).Error)

	form := formCom(map[string]*dtos.ReferenciaForm{
		"baby": {
			NumeroRef: "RF-1B",
			Origem:    "Importado",
			ProvasExistentes: map[int]dtos.ProvaForm{
				prova.ID: {TimeEstilo: "Equipe B", ComentariosEstilo: "ajustar gola"},
			},
		},
	})
	form.Colecao = "Verão Revisado"

	avisos, err := s.UpdateRelatorio(testActor(), relatorio.ID, form)
	require.NoError(t, err)
	assert.Empty(t, avisos)

	var refs []models.ReferenciaModel
	require.NoError(t, db.Where("relatorio_id = ?", relatorio.ID).Find(&refs).Error)
	require.Len(t, refs, 1)
	require.NotNil(t, refs[0].NumeroRef)
	assert.Equal(t, "RF-1B", *refs[0].NumeroRef)
	require.NotNil(t, refs[0].Origem)
	assert.Equal(t, "Importado", *refs[0].Origem)

	var provas []models.ProvaModel
	require.NoError(t, db.Where("referencia_id = ?", refs[0].ID).Find(&provas).Error)
	require.Len(t, provas, 1)
	require.NotNil(t, provas[0].TimeEstilo)
	assert.Equal(t, "Equipe B", *provas[0].TimeEstilo)

	var atualizado models.RelatorioModel
	require.NoError(t, db.First(&atualizado, relatorio.ID).Error)
	require.NotNil(t, atualizado.Colecao)
	assert.Equal(t, "Verão Revisado", *atualizado.Colecao)
}

func TestUpdateRelatorioAdicionaCategoriaNova(t *testing.T) {
	s, db, _ := newTestRelatorioService(t)

	relatorio, _, err := s.CreateRelatorio(testActor(), formCom(map[string]*dtos.ReferenciaForm{
		"baby": {NumeroRef: "RF-1"},
	}))
	require.NoError(t, err)

	_, err = s.UpdateRelatorio(testActor(), relatorio.ID, formCom(map[string]*dtos.ReferenciaForm{
		"baby": {NumeroRef: "RF-1"},
		"teen": {NumeroRef: "RF-9"},
	}))
	require.NoError(t, err)

	var refs []models.ReferenciaModel
	require.NoError(t, db.Where("relatorio_id = ?", relatorio.ID).Order("tipo").Find(&refs).Error)
	require.Len(t, refs, 2)

	var provas int64
	db.Model(&models.ProvaModel{}).Count(&provas)
	assert.EqualValues(t, 2, provas)
}

func TestUpdateRelatorioInexistente(t *testing.T) {
	s, _, _ := newTestRelatorioService(t)
	_, err := s.UpdateRelatorio(testActor(), 999, formCom(nil))
	assert.ErrorIs(t, err, ErrRelatorioNaoEncontrado)
}

func TestAddProvaNumeraAPartirDeUm(t *testing.T) {
	s, db, _ := newTestRelatorioService(t)

	relatorio := models.RelatorioModel{DescricaoGeral: "Coleção"}
	require.NoError(t, db.Create(&relatorio).Error)
	ref := models.ReferenciaModel{RelatorioID: relatorio.ID, Tipo: "kids"}
	require.NoError(t, db.Create(&ref).Error)

	primeira, _, err := s.AddProva(testActor(), ref.ID, dtos.ProvaForm{})
	require.NoError(t, err)
	assert.Equal(t, 1, primeira.NumeroProva)

	segunda, _, err := s.AddProva(testActor(), ref.ID, dtos.ProvaForm{})
	require.NoError(t, err)
	assert.Equal(t, 2, segunda.NumeroProva)
}

func TestAddProvaReferenciaInexistente(t *testing.T) {
	s, _, _ := newTestRelatorioService(t)
	_, _, err := s.AddProva(testActor(), 42, dtos.ProvaForm{})
	assert.ErrorIs(t, err, ErrReferenciaNaoEncontrada)
}

func TestUpdateStatusProvaNaoAfetaIrmas(t *testing.T) {
	s, db, _ := newTestRelatorioService(t)

	relatorio, _, err := s.CreateRelatorio(testActor(), formCom(map[string]*dtos.ReferenciaForm{
		"adulto": {NumeroRef: "RF-3"},
	}))
	require.NoError(t, err)

	detalhes, err := s.GetRelatorioDetalhes(relatorio.ID)
	require.NoError(t, err)
	refID := detalhes.Referencias[0].ReferenciaModel.ID

	segunda, _, err := s.AddProva(testActor(), refID, dtos.ProvaForm{})
	require.NoError(t, err)

	relatorioID, err := s.UpdateStatusProva(testActor(), segunda.ID, "Reprovada", "medida fora da tabela")
	require.NoError(t, err)
	assert.Equal(t, relatorio.ID, relatorioID)

	var provas []models.ProvaModel
	require.NoError(t, db.Where("referencia_id = ?", refID).Order("numero_prova").Find(&provas).Error)
	require.Len(t, provas, 2)
	assert.Equal(t, models.StatusEmAndamento, provas[0].Status)
	assert.Equal(t, "Reprovada", provas[1].Status)
	require.NotNil(t, provas[1].MotivoUltimaAlteracao)
	assert.Equal(t, "medida fora da tabela", *provas[1].MotivoUltimaAlteracao)

	rejeicoes := auditRows(t, db, models.AcaoReject)
	require.Len(t, rejeicoes, 1)
	assert.Equal(t, models.CategoriaAprovacoes, rejeicoes[0].Categoria)
}

func TestUpdateStatusProvaInexistente(t *testing.T) {
	s, _, _ := newTestRelatorioService(t)
	_, err := s.UpdateStatusProva(testActor(), 77, "Aprovada", "")
	assert.ErrorIs(t, err, ErrProvaNaoEncontrada)
}

func TestDeleteRelatorioRemoveDescendentes(t *testing.T) {
	s, db, _ := newTestRelatorioService(t)

	alvo, _, err := s.CreateRelatorio(testActor(), formCom(map[string]*dtos.ReferenciaForm{
		"baby": {NumeroRef: "RF-1"},
		"kids": {NumeroRef: "RF-2"},
	}))
	require.NoError(t, err)

	outro, _, err := s.CreateRelatorio(testActor(), &dtos.RelatorioForm{
		DescricaoGeral: "Outro Relatório",
		Referencias: map[string]*dtos.ReferenciaForm{
			"teen": {NumeroRef: "RF-5"},
		},
	})
	require.NoError(t, err)

	var prova models.ProvaModel
	require.NoError(t, db.Joins("JOIN referencias ON referencias.id = provas.referencia_id").
		Where("referencias.relatorio_id = ?", alvo.ID).First(&prova).Error)
	require.NoError(t, db.Create(&models.FotoModel{ProvaID: prova.ID, Contexto: models.ContextoDesenho, FilePath: "a.png"}).Error)

	require.NoError(t, s.DeleteRelatorio(testActor(), alvo.ID))

	var n int64
	db.Model(&models.RelatorioModel{}).Where("id = ?", alvo.ID).Count(&n)
	assert.Zero(t, n)
	db.Model(&models.ReferenciaModel{}).Where("relatorio_id = ?", alvo.ID).Count(&n)
	assert.Zero(t, n)
	db.Model(&models.FotoModel{}).Count(&n)
	assert.Zero(t, n)

	db.Model(&models.ReferenciaModel{}).Where("relatorio_id = ?", outro.ID).Count(&n)
	assert.EqualValues(t, 1, n)

	exclusoes := auditRows(t, db, models.AcaoDelete)
	require.Len(t, exclusoes, 1)
	assert.Equal(t, models.SeveridadeWarning, exclusoes[0].Severidade)
}

func TestDeleteRelatorioInexistente(t *testing.T) {
	s, _, _ := newTestRelatorioService(t)
	assert.ErrorIs(t, s.DeleteRelatorio(testActor(), 404), ErrRelatorioNaoEncontrado)
}

func TestGetRelatorioDetalhesAgrupaFotos(t *testing.T) {
	s, db, _ := newTestRelatorioService(t)

	relatorio, _, err := s.CreateRelatorio(testActor(), formCom(map[string]*dtos.ReferenciaForm{
		"baby": {NumeroRef: "RF-1", NovaProva: dtos.ProvaForm{TamanhosRecebidos: []string{"P", "M"}}},
	}))
	require.NoError(t, err)

	var prova models.ProvaModel
	require.NoError(t, db.First(&prova).Error)
	tam := "P"
	require.NoError(t, db.Create(&models.FotoModel{ProvaID: prova.ID, Contexto: models.ContextoDesenho, FilePath: "d.png"}).Error)
	require.NoError(t, db.Create(&models.FotoModel{ProvaID: prova.ID, Contexto: models.ContextoAmostra, Tamanho: &tam, FilePath: "a.png"}).Error)

	detalhes, err := s.GetRelatorioDetalhes(relatorio.ID)
	require.NoError(t, err)
	require.Len(t, detalhes.Referencias, 1)
	require.Len(t, detalhes.Referencias[0].Provas, 1)

	pd := detalhes.Referencias[0].Provas[0]
	assert.Equal(t, []string{"P", "M"}, pd.TamanhosLista)
	assert.Len(t, pd.FotosPorContexto[models.ContextoDesenho], 1)
	assert.Len(t, pd.FotosPorContexto[models.ContextoAmostra], 1)
}

func TestContagens(t *testing.T) {
	s, _, _ := newTestRelatorioService(t)

	_, _, err := s.CreateRelatorio(testActor(), formCom(map[string]*dtos.ReferenciaForm{
		"baby": {NumeroRef: "RF-1"},
		"teen": {NumeroRef: "RF-2"},
	}))
	require.NoError(t, err)

	c, err := s.Contagens()
	require.NoError(t, err)
	assert.EqualValues(t, 1, c.Relatorios)
	assert.EqualValues(t, 2, c.Referencias)
	assert.EqualValues(t, 2, c.Provas)
	assert.EqualValues(t, 0, c.Fotos)
}
