package metaclient

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-optimizer-api/internal/domain"
)

// UpdateResponse representa a resposta do Graph API a uma mutação
type UpdateResponse struct {
	Success bool `json:"success"`
}

// UpdateEntityStatus altera o status de veiculação de um conjunto de anúncios
// ou anúncio no Meta. O Graph API usa o mesmo endpoint de mutação para os
// dois níveis.
func (c *MetaClient) UpdateEntityStatus(externalID string, status domain.EntityStatus) error {
	params := url.Values{}
	params.Add("status", string(status))

	return c.postUpdate(externalID, params)
}

// UpdateAdSetDailyBudget altera o orçamento diário de um conjunto de anúncios.
// O Graph API recebe orçamentos em centavos.
func (c *MetaClient) UpdateAdSetDailyBudget(externalID string, dailyBudget float64) error {
	cents := int64(math.Round(dailyBudget * 100))

	params := url.Values{}
	params.Add("daily_budget", strconv.FormatInt(cents, 10))

	return c.postUpdate(externalID, params)
}

func (c *MetaClient) postUpdate(externalID string, params url.Values) error {
	// Garantir que o token seja válido antes de fazer a requisição
	if err := c.EnsureValidToken(); err != nil {
		return fmt.Errorf("erro ao verificar validade do token: %w", err)
	}

	requestURL := fmt.Sprintf("%s/%s", c.Cfg.Meta.URL, externalID)
	params.Set("access_token", c.Cfg.Meta.AccessToken)

	req, err := http.NewRequest(http.MethodPost, requestURL, strings.NewReader(params.Encode()))
	if err != nil {
		logrus.WithError(err).Error("Erro ao criar a requisição")
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		logrus.WithError(err).Error("Erro ao fazer a requisição")
		return err
	}
	defer resp.Body.Close()

	body, err := c.HandleResponse(resp)
	if err != nil {
		// Se o erro indica que o token foi renovado, tentar novamente
		if err.Error() == "token expirado e renovado, por favor tente novamente" {
			return c.postUpdate(externalID, params)
		}
		return err
	}

	var response UpdateResponse
	if err := json.Unmarshal(body, &response); err != nil {
		logrus.WithError(err).Error("Erro ao decodificar JSON")
		return err
	}

	if !response.Success {
		return fmt.Errorf("o Graph API não confirmou a mutação da entidade %s", externalID)
	}

	return nil
}
