package cmd

import (
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jsphweid/auxloop/config"
	"github.com/jsphweid/auxloop/constants"
	"github.com/jsphweid/auxloop/model"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

var addr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", constants.DefaultAddr, "address to listen on")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the transformers over HTTP",
	Long: `Serves the transformers over HTTP. POST a JSON body to /loop, /fade,
/hocket or /randomise and get LilyPond back.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("listening", "addr", addr)
		return http.ListenAndServe(addr, Handler())
	},
}

// Handler routes every endpoint and allows cross origin requests.
func Handler() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/loop", HandleLoop).Methods("POST")
	router.HandleFunc("/fade", HandleFade).Methods("POST")
	router.HandleFunc("/hocket", HandleHocket).Methods("POST")
	router.HandleFunc("/randomise", HandleRandomise).Methods("POST")
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")
	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusBadRequest, "could not unmarshal request body: "+err.Error())
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: detail})
}

func respond(w http.ResponseWriter, out Output, err error) {
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, model.ErrConfig) || errors.Is(err, model.ErrStructure) || errors.Is(err, model.ErrExhausted) {
			status = http.StatusBadRequest
		}
		logger.Debug("request failed", "err", err)
		writeError(w, status, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	windows := out.Windows
	if windows == nil {
		windows = []string{}
	}
	json.NewEncoder(w).Encode(model.WindowsResponse{Windows: windows, Music: out.Music})
}

// requestRand gives each request its own generator.
func requestRand(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func HandleLoop(w http.ResponseWriter, r *http.Request) {
	var in model.LoopRequest
	if !decode(w, r, &in) {
		return
	}
	cfg := config.Loop{
		Mode:                in.Mode,
		Window:              in.Window,
		Step:                in.Step,
		FillWithRests:       in.FillWithRests,
		TieIdenticalPitches: in.TieIdentical,
	}
	if h := in.Head; h != nil {
		cfg.Head = config.Head{
			MaxSteps:           h.MaxSteps,
			RepetitionChance:   h.RepetitionChance,
			ForwardBias:        h.ForwardBias,
			ProcessOnFirstCall: h.ProcessOnFirstCall,
		}
	}
	out, err := runLoop(cfg, request{music: in.Music, count: in.Count, all: in.All, rand: requestRand(in.Seed), log: logger})
	respond(w, out, err)
}

func HandleFade(w http.ResponseWriter, r *http.Request) {
	var in model.FadeRequest
	if !decode(w, r, &in) {
		return
	}
	cfg := config.Fade{
		Type:            in.Type,
		MaxSteps:        in.MaxSteps,
		Mask:            in.Mask,
		FadeOnFirstCall: in.FadeOnFirstCall,
	}
	req := request{music: in.Music, count: in.Count, all: in.Count == 0, rand: requestRand(in.Seed), log: logger}
	out, err := runFade(cfg, req)
	respond(w, out, err)
}

func HandleHocket(w http.ResponseWriter, r *http.Request) {
	var in model.HocketRequest
	if !decode(w, r, &in) {
		return
	}
	cfg := config.Hocket{
		NVoices:              in.NVoices,
		Weights:              in.Weights,
		K:                    in.K,
		ForceKDistinctVoices: in.ForceKDistinctVoices,
	}
	out, err := runHocket(cfg, request{music: in.Music, count: in.Count, rand: requestRand(in.Seed), log: logger})
	respond(w, out, err)
}

func HandleRandomise(w http.ResponseWriter, r *http.Request) {
	var in model.RandomiseRequest
	if !decode(w, r, &in) {
		return
	}
	cfg := config.Randomise{
		Pitches:        in.Pitches,
		Weights:        in.Weights,
		UseTenney:      in.UseTenney,
		UseCartography: in.UseCartography,
		DecayRate:      in.DecayRate,
	}
	out, err := runRandomise(cfg, request{music: in.Music, count: in.Count, rand: requestRand(in.Seed), log: logger})
	respond(w, out, err)
}
