package integration

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kivahq/kiva-waitlist/config"
	"github.com/kivahq/kiva-waitlist/config/router"
	"github.com/kivahq/kiva-waitlist/domain"
	"github.com/kivahq/kiva-waitlist/internal/log"
	"github.com/kivahq/kiva-waitlist/internal/models"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type WaitlistAPITestSuite struct {
	suite.Suite
	db        *gorm.DB
	server    *httptest.Server
	baseURL   string
	logger    *log.Logger
	appConfig *config.ApplicationConfig
}

func (suite *WaitlistAPITestSuite) SetupSuite() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(models.ModelRegistry...)
	suite.Require().NoError(err)

	suite.logger = log.NewLoggerWithJSONOutput()

	suite.appConfig = &config.ApplicationConfig{
		DB:     suite.db,
		Logger: suite.logger,
	}

	suite.appConfig.RouterService = router.CreateRouterService(suite.logger, nil, &router.RouterConfig{
		RateLimitRequests: 1000,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    30 * time.Second,
	})

	domain.SetupCoreDomain(suite.appConfig)

	suite.server = httptest.NewServer(suite.appConfig.RouterService.GetEngine())
	suite.baseURL = suite.server.URL
}

func (suite *WaitlistAPITestSuite) TearDownSuite() {
	if suite.server != nil {
		suite.server.Close()
	}
	if suite.db != nil {
		sqlDB, _ := suite.db.DB()
		sqlDB.Close()
	}
}

func (suite *WaitlistAPITestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM waitlist")
}

func (suite *WaitlistAPITestSuite) postJoin(body map[string]string) (*http.Response, map[string]interface{}) {
	jsonBody, err := json.Marshal(body)
	suite.Require().NoError(err)

	resp, err := http.Post(suite.baseURL+"/api/waitlist", "application/json", bytes.NewBuffer(jsonBody))
	suite.Require().NoError(err)
	defer resp.Body.Close()

	var response map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&response)
	suite.Require().NoError(err)

	return resp, response
}

func (suite *WaitlistAPITestSuite) countByEmail(email string) int64 {
	var count int64
	suite.db.Model(&models.WaitlistEntry{}).Where("email = ?", email).Count(&count)
	return count
}

func (suite *WaitlistAPITestSuite) TestHealthCheck() {
	resp, err := http.Get(suite.baseURL + "/health")
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal(http.StatusOK, resp.StatusCode)

	var response map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&response)
	suite.Require().NoError(err)

	suite.Equal(true, response["success"])
	suite.Contains(response["message"], "health check completed")

	status := response["status"].(map[string]interface{})
	suite.Equal(float64(1), status["database"])
	suite.Contains(status, "uptime")
}

func (suite *WaitlistAPITestSuite) TestJoinWaitlist() {
	resp, response := suite.postJoin(map[string]string{
		"email":    "a@example.com",
		"name":     "Ana",
		"userType": "buyer",
	})

	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Equal(true, response["success"])
	suite.Equal("Successfully joined the waitlist", response["message"])
	suite.NotEmpty(response["id"])

	suite.Equal(int64(1), suite.countByEmail("a@example.com"))
}

func (suite *WaitlistAPITestSuite) TestJoinWaitlistDuplicateEmail() {
	payload := map[string]string{
		"email":    "a@example.com",
		"name":     "Ana",
		"userType": "buyer",
	}

	resp, response := suite.postJoin(payload)
	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Equal(true, response["success"])

	// Identical resubmission: rejected, and the store still holds exactly
	// one entry for the email.
	resp, response = suite.postJoin(payload)
	suite.Equal(http.StatusBadRequest, resp.StatusCode)
	suite.Equal(false, response["success"])
	suite.Equal("This email is already on our waitlist.", response["message"])

	suite.Equal(int64(1), suite.countByEmail("a@example.com"))
}

func (suite *WaitlistAPITestSuite) TestJoinWaitlistInvalidEmail() {
	resp, response := suite.postJoin(map[string]string{
		"email":    "not-an-email",
		"name":     "Bo",
		"userType": "seller",
	})

	suite.Equal(http.StatusBadRequest, resp.StatusCode)
	suite.Equal(false, response["success"])
	suite.Equal("Invalid form data", response["message"])

	errors := response["errors"].([]interface{})
	suite.Require().NotEmpty(errors)

	foundEmailError := false
	for _, item := range errors {
		fieldError := item.(map[string]interface{})
		if fieldError["field"] == "email" {
			foundEmailError = true
			suite.Contains(fieldError["message"], "Invalid email format")
		}
	}
	suite.True(foundEmailError, "expected a validation error referencing the email field")

	var count int64
	suite.db.Model(&models.WaitlistEntry{}).Count(&count)
	suite.Equal(int64(0), count)
}

func (suite *WaitlistAPITestSuite) TestJoinWaitlistMissingEmail() {
	resp, response := suite.postJoin(map[string]string{
		"name":     "Ana",
		"userType": "buyer",
	})

	suite.Equal(http.StatusBadRequest, resp.StatusCode)
	suite.Equal(false, response["success"])

	var count int64
	suite.db.Model(&models.WaitlistEntry{}).Count(&count)
	suite.Equal(int64(0), count)
}

func (suite *WaitlistAPITestSuite) TestJoinWaitlistNameTooShort() {
	resp, response := suite.postJoin(map[string]string{
		"email":    "short@example.com",
		"name":     "A",
		"userType": "buyer",
	})

	suite.Equal(http.StatusBadRequest, resp.StatusCode)
	suite.Equal(false, response["success"])

	errors := response["errors"].([]interface{})
	foundNameError := false
	for _, item := range errors {
		fieldError := item.(map[string]interface{})
		if fieldError["field"] == "name" {
			foundNameError = true
			suite.Contains(fieldError["message"], "at least 2")
		}
	}
	suite.True(foundNameError, "expected a validation error referencing the name field")
}

func (suite *WaitlistAPITestSuite) TestJoinWaitlistUnknownUserType() {
	resp, response := suite.postJoin(map[string]string{
		"email":    "both@example.com",
		"name":     "Bola",
		"userType": "both",
	})

	suite.Equal(http.StatusBadRequest, resp.StatusCode)
	suite.Equal(false, response["success"])

	errors := response["errors"].([]interface{})
	foundUserTypeError := false
	for _, item := range errors {
		fieldError := item.(map[string]interface{})
		if fieldError["field"] == "userType" {
			foundUserTypeError = true
		}
	}
	suite.True(foundUserTypeError, "expected a validation error referencing the userType field")
}

func (suite *WaitlistAPITestSuite) TestJoinRoundTripThroughAdminListing() {
	_, response := suite.postJoin(map[string]string{
		"email":    "roundtrip@example.com",
		"name":     "Rola",
		"userType": "influencer",
		"feedback": "Looking forward to it",
	})
	suite.Equal(true, response["success"])
	createdID := response["id"].(string)

	resp, err := http.Get(suite.baseURL + "/api/admin/waitlist")
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal(http.StatusOK, resp.StatusCode)

	var listing map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&listing)
	suite.Require().NoError(err)

	suite.Equal(true, listing["success"])
	suite.Equal(float64(1), listing["count"])

	entries := listing["entries"].([]interface{})
	suite.Require().Len(entries, 1)

	entry := entries[0].(map[string]interface{})
	suite.Equal(createdID, entry["id"])
	suite.Equal("roundtrip@example.com", entry["email"])
	suite.Equal("Rola", entry["name"])
	suite.Equal("influencer", entry["user_type"])
	suite.Equal("Influencer", entry["user_type_label"])
	suite.Equal("Looking forward to it", entry["feedback"])
	suite.NotEmpty(entry["created_at"])
}

func (suite *WaitlistAPITestSuite) TestAdminListingNewestFirst() {
	early := models.WaitlistEntry{
		Email:     "early@example.com",
		Name:      "Early",
		UserType:  models.UserTypeBuyer,
		CreatedAt: time.Now().Add(-time.Hour),
	}
	late := models.WaitlistEntry{
		Email:     "late@example.com",
		Name:      "Late",
		UserType:  models.UserTypeSeller,
		CreatedAt: time.Now(),
	}
	suite.Require().NoError(suite.db.Create(&early).Error)
	suite.Require().NoError(suite.db.Create(&late).Error)

	resp, err := http.Get(suite.baseURL + "/api/admin/waitlist")
	suite.Require().NoError(err)
	defer resp.Body.Close()

	var listing map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&listing)
	suite.Require().NoError(err)

	entries := listing["entries"].([]interface{})
	suite.Require().Len(entries, 2)
	suite.Equal("late@example.com", entries[0].(map[string]interface{})["email"])
	suite.Equal("early@example.com", entries[1].(map[string]interface{})["email"])
}

func (suite *WaitlistAPITestSuite) TestAdminCSVExport() {
	_, response := suite.postJoin(map[string]string{
		"email":    "csv@example.com",
		"name":     "Cesa",
		"userType": "seller",
		"feedback": "with, comma",
	})
	suite.Equal(true, response["success"])

	resp, err := http.Get(suite.baseURL + "/api/admin/waitlist/export")
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Equal("text/csv", resp.Header.Get("Content-Type"))
	suite.Contains(resp.Header.Get("Content-Disposition"), "attachment")
	suite.Contains(resp.Header.Get("Content-Disposition"), "waitlist-")

	records, err := csv.NewReader(resp.Body).ReadAll()
	suite.Require().NoError(err)
	suite.Require().Len(records, 2)

	suite.Equal([]string{"Name", "Email", "User Type", "Feedback", "Date Joined"}, records[0])
	suite.Equal("Cesa", records[1][0])
	suite.Equal("csv@example.com", records[1][1])
	suite.Equal("Seller", records[1][2])
	suite.Equal("with, comma", records[1][3])
}

func (suite *WaitlistAPITestSuite) TestJoinWaitlistMalformedJSON() {
	resp, err := http.Post(suite.baseURL+"/api/waitlist", "application/json", strings.NewReader("{not json"))
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal(http.StatusBadRequest, resp.StatusCode)

	var response map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&response)
	suite.Require().NoError(err)
	suite.Equal(false, response["success"])
}

func (suite *WaitlistAPITestSuite) TestImmutableSurface() {
	// Entries are write-once: there is no update or delete route.
	req, err := http.NewRequest(http.MethodDelete, suite.baseURL+"/api/waitlist", nil)
	suite.Require().NoError(err)

	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal(http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestWaitlistAPITestSuite(t *testing.T) {
	suite.Run(t, new(WaitlistAPITestSuite))
}
