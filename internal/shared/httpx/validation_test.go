package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type contactForm struct {
	Name   string `json:"name" binding:"required,min=3"`
	Mobile string `json:"mobile_number" binding:"required,mobile"`
	Alt    string `json:"alternate_number" binding:"omitempty,mobile"`
}

func bindContact(t *testing.T, body string) error {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", gin.MIMEJSON)
	var form contactForm
	return c.ShouldBindJSON(&form)
}

func TestRegisterValidators_MobileRule(t *testing.T) {
	gin.SetMode(gin.TestMode)
	require.NoError(t, RegisterValidators())
	require.NoError(t, RegisterValidators())

	require.NoError(t, bindContact(t, `{"name":"Asha","mobile_number":"9876543210"}`))
	require.NoError(t, bindContact(t, `{"name":"Asha","mobile_number":"9876543210","alternate_number":""}`))

	err := bindContact(t, `{"name":"Asha","mobile_number":"98765"}`)
	require.Error(t, err)
	problem := BindingProblem(err)
	require.Equal(t, http.StatusBadRequest, problem.Status)
	require.Equal(t, "mobile_number must be 10 digits", problem.Msg)

	err = bindContact(t, `{"name":"As","mobile_number":"9876543210","alternate_number":"12"}`)
	fields := BindingProblem(err).Extensions["fields"].(map[string]string)
	require.Equal(t, "name must be at least 3 characters", fields["name"])
	require.Equal(t, "alternate_number must be 10 digits", fields["alternate_number"])
}

func TestBindingProblem_MalformedBody(t *testing.T) {
	problem := BindingProblem(errors.New("unexpected EOF"))
	require.Equal(t, http.StatusBadRequest, problem.Status)
	require.Equal(t, "Malformed request body", problem.Msg)
}
