package main

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
)

type interviewOptions struct {
	jdPath     string
	resumePath string
	skills     string
}

func newInterviewCmd() *cobra.Command {
	opts := &interviewOptions{}

	cmd := &cobra.Command{
		Use:   "interview --jd FILE --resume FILE --skills a,b,c",
		Short: "Generate interview questions for one candidate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInterview(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.jdPath, "jd", "", "job description file")
	cmd.Flags().StringVar(&opts.resumePath, "resume", "", "resume file")
	cmd.Flags().StringVar(&opts.skills, "skills", "", "comma-separated matched skills")
	_ = cmd.MarkFlagRequired("jd")
	_ = cmd.MarkFlagRequired("resume")
	_ = cmd.MarkFlagRequired("skills")

	return cmd
}

func runInterview(cmd *cobra.Command, opts *interviewOptions) error {
	skills := splitList(opts.skills)
	if len(skills) == 0 {
		return errors.New("--skills must name at least one skill")
	}

	ctx := cmd.Context()
	_, pipeline, err := loadPipeline(ctx)
	if err != nil {
		return err
	}

	jd, err := readText(ctx, pipeline.Extractor, opts.jdPath)
	if err != nil {
		return err
	}
	resume, err := readText(ctx, pipeline.Extractor, opts.resumePath)
	if err != nil {
		return err
	}

	log.Printf("🔄 Generating interview questions for %d skills\n", len(skills))
	qa := pipeline.Interviews.Generate(ctx, jd, resume, skills)
	if qa.Error != "" && len(qa.Items) == 0 {
		return errors.New(qa.Error)
	}

	printInterview(cmd.OutOrStdout(), qa)
	return nil
}
