package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

// Seeds a running API with demo data: a few users, their cars, a month of
// earnings with matching trip expenses, and a couple of claims. Intended for
// local development against an empty database.

var authToken string

func apiURL() string {
	if url := os.Getenv("API_URL"); url != "" {
		return url
	}
	return "http://localhost:8080/api"
}

func authorizedRequest(method, url string, payload interface{}) (map[string]interface{}, int, error) {
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		result = nil
	}
	return result, resp.StatusCode, nil
}

func registerUser(username, email, password, role string) error {
	payload := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
		"role":     role,
	}
	_, status, err := authorizedRequest(http.MethodPost, apiURL()+"/auth/register", payload)
	if err != nil {
		return err
	}
	// 409 means the user survived a previous seed run.
	if status != http.StatusCreated && status != http.StatusConflict {
		return fmt.Errorf("registration failed with status %d", status)
	}
	log.WithFields(log.Fields{"username": username, "role": role}).Info("Registered user")
	return nil
}

func login(username, password string) error {
	payload := map[string]string{"username": username, "password": password}
	result, status, err := authorizedRequest(http.MethodPost, apiURL()+"/auth/login", payload)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("login failed with status %d", status)
	}
	token, ok := result["token"].(string)
	if !ok {
		return fmt.Errorf("no token in login response")
	}
	authToken = token
	log.WithField("username", username).Info("Logged in")
	return nil
}

func createCar(clientID string, model string, monthlyCost float64) (string, error) {
	payload := map[string]interface{}{
		"client_id":          clientID,
		"make":               "Tesla",
		"model":              model,
		"year":               2021 + rand.Intn(4),
		"status":             "hosted",
		"monthly_fixed_cost": monthlyCost,
	}
	result, status, err := authorizedRequest(http.MethodPost, apiURL()+"/cars", payload)
	if err != nil {
		return "", err
	}
	if status != http.StatusCreated {
		return "", fmt.Errorf("car creation failed with status %d", status)
	}
	id, ok := result["id"].(string)
	if !ok {
		return "", fmt.Errorf("invalid car ID in response")
	}
	log.WithFields(log.Fields{"car_id": id, "model": model}).Info("Created car")
	return id, nil
}

func createEarning(carID, tripID string, start, end time.Time, gross float64) error {
	payload := map[string]interface{}{
		"car_id":       carID,
		"trip_id":      tripID,
		"period_start": start.Format(time.RFC3339),
		"period_end":   end.Format(time.RFC3339),
		"gross_amount": gross,
		"guest_name":   fmt.Sprintf("Guest %d", rand.Intn(1000)),
	}
	_, status, err := authorizedRequest(http.MethodPost, apiURL()+"/earnings", payload)
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("earning creation failed with status %d", status)
	}
	return nil
}

func createExpense(carID, tripID string, amount, toll, evCharge float64) error {
	payload := map[string]interface{}{
		"car_id":           carID,
		"trip_id":          tripID,
		"amount":           amount,
		"toll_amount":      toll,
		"ev_charge_amount": evCharge,
		"description":      "trip costs",
	}
	_, status, err := authorizedRequest(http.MethodPost, apiURL()+"/expenses", payload)
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("expense creation failed with status %d", status)
	}
	return nil
}

func createClaim(carID string, amount float64, description string) error {
	payload := map[string]interface{}{
		"car_id":         carID,
		"claimed_amount": amount,
		"description":    description,
	}
	_, status, err := authorizedRequest(http.MethodPost, apiURL()+"/claims", payload)
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("claim creation failed with status %d", status)
	}
	log.WithFields(log.Fields{"car_id": carID, "amount": amount}).Info("Filed claim")
	return nil
}

func seedCar(clientID, model string, tripsPerMonth int) error {
	carID, err := createCar(clientID, model, 450+rand.Float64()*200)
	if err != nil {
		return err
	}

	// Back-to-back trips over the trailing month, each with matched expenses.
	cursor := time.Now().AddDate(0, -1, 0)
	for i := 0; i < tripsPerMonth; i++ {
		tripID := fmt.Sprintf("trip-%s-%d", carID[:6], i)
		days := 1 + rand.Intn(4)
		start := cursor
		end := cursor.AddDate(0, 0, days)
		cursor = end.AddDate(0, 0, 1)

		gross := 80*float64(days) + rand.Float64()*120
		if err := createEarning(carID, tripID, start, end, gross); err != nil {
			return err
		}
		if err := createExpense(carID, tripID, rand.Float64()*20, rand.Float64()*15, rand.Float64()*25); err != nil {
			return err
		}
	}

	if rand.Intn(3) == 0 {
		if err := createClaim(carID, 200+rand.Float64()*800, "curb rash on front wheel"); err != nil {
			return err
		}
	}

	log.WithFields(log.Fields{"car_id": carID, "trips": tripsPerMonth}).Info("Seeded car history")
	return nil
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	// Admin accounts are provisioned out of band; the register endpoint only
	// accepts hosts and clients.
	users := []struct {
		username string
		role     string
	}{
		{"demo-host", "host"},
		{"demo-client", "client"},
	}
	for _, u := range users {
		if err := registerUser(u.username, u.username+"@teslys.local", "demo-password-1", u.role); err != nil {
			log.WithError(err).Fatal("Failed to register user")
		}
	}

	if err := login("demo-client", "demo-password-1"); err != nil {
		log.WithError(err).Fatal("Failed to log in")
	}

	profile, status, err := authorizedRequest(http.MethodGet, apiURL()+"/auth/profile", nil)
	if err != nil || status != http.StatusOK {
		log.WithError(err).WithField("status", status).Fatal("Failed to load profile")
	}
	clientID, _ := profile["id"].(string)

	models := []struct {
		name  string
		trips int
	}{
		{"Model 3", 9},
		{"Model Y", 14},
		{"Model S", 3},
	}
	for _, m := range models {
		if err := seedCar(clientID, m.name, m.trips); err != nil {
			log.WithError(err).WithField("model", m.name).Fatal("Failed to seed car")
		}
	}

	log.Info("Seeding complete")
}
