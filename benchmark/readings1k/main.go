package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"liyu1981.xyz/thp-sensor-service/pkg/common"
	"liyu1981.xyz/thp-sensor-service/pkg/grpc/sensorpb"
)

var maxLocations int = 1000
var readingsPerLocation int = 3
var httpHostPort string = "127.0.0.1:1080"
var grpcHostPort string = "127.0.0.1:10801"

var grpcClient sensorpb.SensorServiceClient

var (
	okCount      atomic.Int64
	limitedCount atomic.Int64
	errorCount   atomic.Int64
)

func main() {
	_ = godotenv.Load()
	if v := strings.TrimSpace(os.Getenv(common.EnvKeyTHPHttpHostPort)); v != "" {
		httpHostPort = normalizeHostPort(v)
	}
	if v := strings.TrimSpace(os.Getenv(common.EnvKeyTHPGrpcHostPort)); v != "" {
		grpcHostPort = normalizeHostPort(v)
	}

	locations := make([]string, maxLocations)
	for i := range maxLocations {
		locations[i] = fmt.Sprintf("Bench%04d", i)
	}
	fmt.Printf("generated %v locations\n", maxLocations)

	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}
	fmt.Printf("http server verified\n")

	conn, err := grpc.NewClient(grpcHostPort, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatal("Failed to connect to gRPC server:", err)
	}
	defer conn.Close()
	grpcClient = sensorpb.NewSensorServiceClient(conn)
	fmt.Printf("gRPC client connected\n")

	startTime := time.Now()
	wg := sync.WaitGroup{}
	for i := range maxLocations {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range readingsPerLocation {
				postReading(locations[i])
				time.Sleep(time.Duration(50+rand.IntN(200)) * time.Millisecond)
			}
		}()
	}
	wg.Wait()
	usedTime := time.Since(startTime)

	total := maxLocations * readingsPerLocation
	fmt.Printf(
		"posted %v readings: used time=%v seconds, throughput=%v readings/second, ok=%v, limited=%v, errors=%v\n",
		total, usedTime.Seconds(), float64(total)/usedTime.Seconds(),
		okCount.Load(), limitedCount.Load(), errorCount.Load(),
	)
}

func normalizeHostPort(hostPort string) string {
	if strings.HasPrefix(hostPort, ":") {
		return "127.0.0.1" + hostPort
	}
	return hostPort
}

func rndFloat64(min, max float64, decimal int) float64 {
	val := min + rand.Float64()*(max-min)
	multiplier := math.Pow10(decimal)
	return math.Round(val*multiplier) / multiplier
}

// randomReading stays close to the usual limits so a share of the posts
// produce notifications.
func randomReading(location string) map[string]any {
	return map[string]any{
		"location":           location,
		"temperatureCelsius": rndFloat64(20, 40, 2),
		"humidityPercent":    rndFloat64(30, 90, 1),
		"pressureHpa":        rndFloat64(970, 1040, 1),
	}
}

func postReading(location string) {
	payload := randomReading(location)

	if rand.IntN(2) == 0 {
		jsonData, _ := json.Marshal(payload)
		resp, err := http.Post(fmt.Sprintf("http://%s/api/sensor", httpHostPort), "application/json", bytes.NewBuffer(jsonData))
		if err != nil {
			errorCount.Add(1)
			fmt.Printf("\nerror: %v\n", err)
			return
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusCreated:
			okCount.Add(1)
		case http.StatusTooManyRequests:
			limitedCount.Add(1)
		default:
			errorCount.Add(1)
			fmt.Printf("\nunexpected status: %v\n", resp.Status)
		}
		return
	}

	req, err := structpb.NewStruct(payload)
	if err != nil {
		panic(err)
	}
	resp, err := grpcClient.PostReading(context.Background(), req)
	if err != nil {
		if status.Code(err) == codes.ResourceExhausted {
			limitedCount.Add(1)
			return
		}
		errorCount.Add(1)
		fmt.Printf("\nerror: %v\n", err)
		return
	}
	if !resp.GetFields()["success"].GetBoolValue() {
		errorCount.Add(1)
		fmt.Printf("\nresponse success = false: %v\n", resp)
		return
	}
	okCount.Add(1)
}
