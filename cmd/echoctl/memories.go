package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	memoriesCmd := &cobra.Command{Use: "memories", Short: "Memory operations"}

	// create
	var (
		userID, title, content, emotion, access, location string
		lat, lng                                          float64
	)
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Record a memory (emotion is classified when omitted)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" || title == "" {
				return fmt.Errorf("--user and --title required")
			}
			payload := map[string]interface{}{
				"userId":    userID,
				"title":     title,
				"latitude":  lat,
				"longitude": lng,
			}
			if content != "" {
				payload["content"] = content
			}
			if emotion != "" {
				payload["emotion"] = emotion
			}
			if access != "" {
				payload["accessType"] = access
			}
			if location != "" {
				payload["locationName"] = location
			}
			data, err := doPostJSON("/api/memories", payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	createCmd.Flags().StringVarP(&userID, "user", "u", "", "User ID (required)")
	createCmd.Flags().StringVarP(&title, "title", "t", "", "Memory title (required)")
	createCmd.Flags().StringVarP(&content, "content", "c", "", "Memory text content")
	createCmd.Flags().StringVarP(&emotion, "emotion", "e", "", "Emotion tag (classified when omitted)")
	createCmd.Flags().StringVar(&access, "access", "", "Access type (public, friends, emotion_match, private)")
	createCmd.Flags().StringVar(&location, "location", "", "Location name")
	createCmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	createCmd.Flags().Float64Var(&lng, "lng", 0, "Longitude")
	memoriesCmd.AddCommand(createCmd)

	// get
	getCmd := &cobra.Command{
		Use:   "get MEMORY_ID",
		Short: "Get memory by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/api/memories/" + args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	memoriesCmd.AddCommand(getCmd)

	// nearby
	var radius float64
	nearbyCmd := &cobra.Command{
		Use:   "nearby LAT LNG",
		Short: "List public memories near a point",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/memories/nearby/%s/%s", args[0], args[1])
			if radius > 0 {
				path = fmt.Sprintf("%s?radius=%g", path, radius)
			}
			data, err := doGet(path)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	nearbyCmd.Flags().Float64VarP(&radius, "radius", "r", 0, "Search radius in meters (default 5000)")
	memoriesCmd.AddCommand(nearbyCmd)

	// unlock
	var unlockedBy, echoContent string
	unlockCmd := &cobra.Command{
		Use:   "unlock MEMORY_ID",
		Short: "Unlock a memory and leave an echo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if unlockedBy == "" {
				return fmt.Errorf("--user required")
			}
			payload := map[string]interface{}{"unlockedBy": unlockedBy}
			if echoContent != "" {
				payload["echoContent"] = echoContent
			}
			data, err := doPostJSON("/api/memories/"+args[0]+"/unlock", payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	unlockCmd.Flags().StringVarP(&unlockedBy, "user", "u", "", "Unlocking user ID (required)")
	unlockCmd.Flags().StringVar(&echoContent, "echo", "", "Echo message left on the memory")
	memoriesCmd.AddCommand(unlockCmd)

	// map
	mapCmd := &cobra.Command{
		Use:   "map",
		Short: "Show the global emotion map",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/api/emotions/map")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	memoriesCmd.AddCommand(mapCmd)

	rootCmd.AddCommand(memoriesCmd)
}
